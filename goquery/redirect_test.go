package goquery_test

import (
	"testing"

	"github.com/fwojciec/wikitxt/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDetectRedirectHTML(t *testing.T) {
	t.Parallel()

	t.Run("special redirect with version link", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
<link rel="dc:isVersionOf" href="//zh.wikipedia.org/wiki/%E8%94%A1%E4%BE%9D%E6%9E%97">
<title>Special:Redirect</title></head><body>Special:Redirect</body></html>`

		target, ok := goquery.DetectRedirectHTML(markup)

		assert.True(t, ok)
		assert.Equal(t, "蔡依林", target)
	})

	t.Run("special redirect falls back to the page title", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head><title>蔡依林 - 維基百科，自由的百科全書</title></head>
<body><a href="/wiki/Special:Redirect/page/1">x</a></body></html>`

		target, ok := goquery.DetectRedirectHTML(markup)

		assert.True(t, ok)
		assert.Equal(t, "蔡依林", target)
	})

	t.Run("ignores a generic redirect title", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head><title>重定向</title></head><body>Special:Redirect</body></html>`

		_, ok := goquery.DetectRedirectHTML(markup)

		assert.False(t, ok)
	})

	t.Run("rendered redirect message", func(t *testing.T) {
		t.Parallel()

		markup := `<div class="redirectMsg"><p>重定向到：</p>
<ul class="redirectText"><li><a href="/wiki/%E7%9B%AE%E6%A8%99%E9%A0%81" title="目標頁">目標頁</a></li></ul></div>`

		target, ok := goquery.DetectRedirectHTML(markup)

		assert.True(t, ok)
		assert.Equal(t, "目標頁", target)
	})

	t.Run("ordinary article", func(t *testing.T) {
		t.Parallel()

		_, ok := goquery.DetectRedirectHTML(`<div class="mw-parser-output"><p>正文。</p></div>`)

		assert.False(t, ok)
	})
}
