package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/wikitxt"
	wikihttp "github.com/fwojciec/wikitxt/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parseJSON = `{"parse":{"title":"蔡依林","displaytitle":"<span class=\"mw-page-title-main\">蔡依林</span>","text":{"*":"<div class=\"mw-parser-output\"><p>正文。</p></div>"}}}`

// newWiki starts a server that answers the Action API with api and the
// REST endpoint with rest.
func newWiki(t *testing.T, api, rest http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	if api != nil {
		mux.HandleFunc("/w/api.php", api)
	}
	if rest != nil {
		mux.HandleFunc("/api/rest_v1/page/html/", rest)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newClient(server *httptest.Server, opts ...wikihttp.Option) *wikihttp.Client {
	base := []wikihttp.Option{
		wikihttp.WithAPIURL(server.URL + "/w/api.php"),
		wikihttp.WithRESTURL(server.URL + "/api/rest_v1/page/html"),
		wikihttp.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}),
	}
	return wikihttp.NewClient(append(base, opts...)...)
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("uses the action API with the configured variant", func(t *testing.T) {
		t.Parallel()

		var query, ua, lang string
		server := newWiki(t, func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			ua = r.Header.Get("User-Agent")
			lang = r.Header.Get("Accept-Language")
			_, _ = w.Write([]byte(parseJSON))
		}, nil)

		fetcher := wikihttp.NewFetcher(newClient(server, wikihttp.WithUserAgent("test-bot/1.0 (me@example.com)")))

		page, err := fetcher.Fetch(context.Background(), "蔡依林")

		require.NoError(t, err)
		assert.Equal(t, "蔡依林", page.Title)
		assert.Equal(t, `<div class="mw-parser-output"><p>正文。</p></div>`, page.HTML)
		assert.Contains(t, query, "action=parse")
		assert.Contains(t, query, "variant=zh-tw")
		assert.Contains(t, query, "maxlag=5")
		assert.Contains(t, query, "format=json")
		assert.Equal(t, "test-bot/1.0 (me@example.com)", ua)
		assert.Equal(t, "zh-tw", lang)
	})

	t.Run("falls back to the REST API", func(t *testing.T) {
		t.Parallel()

		var restPath string
		server := newWiki(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, func(w http.ResponseWriter, r *http.Request) {
			restPath = r.URL.EscapedPath()
			_, _ = w.Write([]byte(`<html><head><meta property="mw:displaytitle" content="蔡依林"></head><body><p>REST。</p></body></html>`))
		})

		fetcher := wikihttp.NewFetcher(newClient(server, wikihttp.WithRetryDelays(nil)))

		page, err := fetcher.Fetch(context.Background(), "蔡依林/音樂")

		require.NoError(t, err)
		assert.Equal(t, "蔡依林", page.Title)
		assert.Contains(t, page.HTML, "REST。")
		assert.True(t, strings.HasSuffix(restPath, "%2F%E9%9F%B3%E6%A8%82"), restPath)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := newWiki(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(parseJSON))
		}, nil)

		fetcher := wikihttp.NewFetcher(newClient(server))

		page, err := fetcher.Fetch(context.Background(), "蔡依林")

		require.NoError(t, err)
		assert.Equal(t, "蔡依林", page.Title)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("retries replication lag errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := newWiki(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				_, _ = w.Write([]byte(`{"error":{"code":"maxlag","info":"Waiting for a database server"}}`))
				return
			}
			_, _ = w.Write([]byte(parseJSON))
		}, nil)

		fetcher := wikihttp.NewFetcher(newClient(server))

		_, err := fetcher.Fetch(context.Background(), "蔡依林")

		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("reports missing pages without retrying", func(t *testing.T) {
		t.Parallel()

		var apiCalls, restCalls atomic.Int32
		server := newWiki(t, func(w http.ResponseWriter, r *http.Request) {
			apiCalls.Add(1)
			_, _ = w.Write([]byte(`{"error":{"code":"missingtitle","info":"The page you specified doesn't exist."}}`))
		}, func(w http.ResponseWriter, r *http.Request) {
			restCalls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		})

		fetcher := wikihttp.NewFetcher(newClient(server))

		_, err := fetcher.Fetch(context.Background(), "不存在")

		require.Error(t, err)
		assert.Equal(t, wikitxt.ENOTFOUND, wikitxt.ErrorCode(err))
		assert.Equal(t, int32(1), apiCalls.Load())
		assert.Equal(t, int32(1), restCalls.Load())
	})

	t.Run("gives up after the last retry", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := newWiki(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		})

		fetcher := wikihttp.NewFetcher(newClient(server))

		_, err := fetcher.Fetch(context.Background(), "蔡依林")

		require.Error(t, err)
		assert.Equal(t, wikitxt.EINTERNAL, wikitxt.ErrorCode(err))
		assert.Equal(t, int32(6), calls.Load())
	})

	t.Run("rejects empty titles", func(t *testing.T) {
		t.Parallel()

		fetcher := wikihttp.NewFetcher(wikihttp.NewClient())

		_, err := fetcher.Fetch(context.Background(), " ")

		assert.Equal(t, wikitxt.EINVALID, wikitxt.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := newWiki(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte(parseJSON))
		}, nil)

		fetcher := wikihttp.NewFetcher(newClient(server))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, "蔡依林")
		require.Error(t, err)
	})

	t.Run("waits on the limiter before each request", func(t *testing.T) {
		t.Parallel()

		server := newWiki(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(parseJSON))
		}, nil)
		limiter := &countingLimiter{}

		fetcher := wikihttp.NewFetcher(newClient(server, wikihttp.WithLimiter(limiter)))

		_, err := fetcher.Fetch(context.Background(), "蔡依林")

		require.NoError(t, err)
		assert.Equal(t, int32(1), limiter.calls.Load())
	})
}

type countingLimiter struct {
	calls atomic.Int32
}

func (l *countingLimiter) Wait(ctx context.Context, domain string) error {
	l.calls.Add(1)
	return ctx.Err()
}

func TestCleanDisplayTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "蔡依林", wikihttp.CleanDisplayTitle(`<span class="mw-page-title-main">蔡依林</span>`))
	assert.Equal(t, "Jolin Tsai", wikihttp.CleanDisplayTitle("<i>Jolin</i>  Tsai"))
	assert.Empty(t, wikihttp.CleanDisplayTitle(""))
}

func TestDisplayTitle(t *testing.T) {
	t.Parallel()

	t.Run("prefers the display title meta tag", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta property="mw:displaytitle" content=" 蔡依林 "><title>Other</title></head></html>`

		assert.Equal(t, "蔡依林", wikihttp.DisplayTitle(html))
	})

	t.Run("falls back to the first heading then the title", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "臺北市", wikihttp.DisplayTitle(`<html><head><title>T</title></head><body><h1 id="firstHeading">臺北市</h1></body></html>`))
		assert.Equal(t, "T", wikihttp.DisplayTitle(`<html><head><title> T </title></head><body></body></html>`))
		assert.Empty(t, wikihttp.DisplayTitle(`<p>x</p>`))
	})
}
