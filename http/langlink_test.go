package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/fwojciec/wikitxt"
	wikihttp "github.com/fwojciec/wikitxt/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLangLinkService_LangLink(t *testing.T) {
	t.Parallel()

	t.Run("returns the linked title", func(t *testing.T) {
		t.Parallel()

		var query string
		server := newWiki(t, func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"query":{"pages":{"123":{"title":"黑猩猩","langlinks":[{"lang":"la","*":"Pan troglodytes"}]}}}}`))
		}, nil)

		svc := wikihttp.NewLangLinkService(newClient(server))

		title, err := svc.LangLink(context.Background(), "黑猩猩", "la")

		require.NoError(t, err)
		assert.Equal(t, "Pan troglodytes", title)
		assert.Contains(t, query, "prop=langlinks")
		assert.Contains(t, query, "lllang=la")
	})

	t.Run("returns not found without a link", func(t *testing.T) {
		t.Parallel()

		server := newWiki(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"query":{"pages":{"123":{"title":"黑猩猩"}}}}`))
		}, nil)

		svc := wikihttp.NewLangLinkService(newClient(server))

		_, err := svc.LangLink(context.Background(), "黑猩猩", "la")

		assert.Equal(t, wikitxt.ENOTFOUND, wikitxt.ErrorCode(err))
	})

	t.Run("surfaces API errors", func(t *testing.T) {
		t.Parallel()

		server := newWiki(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":{"code":"badvalue","info":"Unrecognized value"}}`))
		}, nil)

		svc := wikihttp.NewLangLinkService(newClient(server))

		_, err := svc.LangLink(context.Background(), "黑猩猩", "xx")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "badvalue")
	})
}
