package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/wikitxt"
	"github.com/fwojciec/wikitxt/mock"
	wikislog "github.com/fwojciec/wikitxt/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, title string) (*wikitxt.RawPage, error) {
				return &wikitxt.RawPage{HTML: "<p>content</p>", Title: "蔡依林"}, nil
			},
		}

		fetcher := wikislog.NewLoggingFetcher(inner, newLogger(&buf))
		page, err := fetcher.Fetch(context.Background(), "Jolin")

		require.NoError(t, err)
		assert.Equal(t, "蔡依林", page.Title)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "title=Jolin")
		assert.Contains(t, output, "resolved=蔡依林")
		assert.Contains(t, output, "bytes=14")
		assert.Contains(t, output, "duration=")
		assert.NotContains(t, output, "err=")
	})

	t.Run("logs error on failure at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, title string) (*wikitxt.RawPage, error) {
				return nil, errors.New("network error")
			},
		}

		fetcher := wikislog.NewLoggingFetcher(inner, newLogger(&buf))
		_, err := fetcher.Fetch(context.Background(), "蔡依林")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "err=\"network error\"")
	})

	t.Run("successful calls are hidden above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, title string) (*wikitxt.RawPage, error) {
				return &wikitxt.RawPage{HTML: "<p/>", Title: title}, nil
			},
		}

		_, err := wikislog.NewLoggingFetcher(inner, logger).Fetch(context.Background(), "蔡依林")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingLangLinkService_LangLink(t *testing.T) {
	t.Parallel()

	t.Run("logs the link", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.LangLinkService{
			LangLinkFn: func(ctx context.Context, title, lang string) (string, error) {
				return "Pan", nil
			},
		}

		link, err := wikislog.NewLoggingLangLinkService(inner, newLogger(&buf)).LangLink(context.Background(), "黑猩猩", "la")

		require.NoError(t, err)
		assert.Equal(t, "Pan", link)
		assert.Contains(t, buf.String(), "lang=la")
		assert.Contains(t, buf.String(), "link=Pan")
	})

	t.Run("does not warn about missing links", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.LangLinkService{
			LangLinkFn: func(ctx context.Context, title, lang string) (string, error) {
				return "", wikitxt.Errorf(wikitxt.ENOTFOUND, "no link")
			},
		}

		_, err := wikislog.NewLoggingLangLinkService(inner, newLogger(&buf)).LangLink(context.Background(), "黑猩猩", "la")

		assert.Equal(t, wikitxt.ENOTFOUND, wikitxt.ErrorCode(err))
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.NotContains(t, buf.String(), "err=")
	})
}

func TestLoggingImageDownloader_Download(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.ImageDownloader{
		DownloadFn: func(ctx context.Context, imageURL, filename string) error {
			return errors.New("HTTP 500")
		},
	}

	err := wikislog.NewLoggingImageDownloader(inner, newLogger(&buf)).Download(context.Background(), "https://upload.wikimedia.org/a.jpg", "a.jpg")

	require.Error(t, err)
	output := buf.String()
	assert.Contains(t, output, "msg=\"image download\"")
	assert.Contains(t, output, "file=a.jpg")
	assert.Contains(t, output, "level=WARN")
}
