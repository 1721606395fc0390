package goquery_test

import (
	"testing"

	"github.com/fwojciec/wikitxt/goquery"
	"github.com/stretchr/testify/assert"
)

func TestRenderList(t *testing.T) {
	t.Parallel()

	t.Run("bullets unordered items", func(t *testing.T) {
		t.Parallel()

		ul := parseNode(t, `<ul><li>甲</li><li>乙</li></ul>`, "ul")

		assert.Equal(t, []string{"• 甲", "• 乙"}, goquery.RenderList(ul))
	})

	t.Run("numbers ordered items by position among direct children", func(t *testing.T) {
		t.Parallel()

		ol := parseNode(t, `<ol><li>one<ul><li>nested</li></ul></li><li> </li><li>three</li></ol>`, "ol")

		assert.Equal(t, []string{"1. one", "3. three"}, goquery.RenderList(ol))
	})

	t.Run("squeezes item whitespace", func(t *testing.T) {
		t.Parallel()

		ul := parseNode(t, "<ul><li>  Jolin <a href=\"#\">Tsai</a>  </li></ul>", "ul")

		assert.Equal(t, []string{"• Jolin Tsai"}, goquery.RenderList(ul))
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		ul := parseNode(t, `<ul></ul>`, "ul")

		assert.Empty(t, goquery.RenderList(ul))
	})
}
