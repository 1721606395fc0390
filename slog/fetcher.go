package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/wikitxt"
)

// Ensure LoggingFetcher implements wikitxt.Fetcher.
var _ wikitxt.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   wikitxt.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next wikitxt.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, title string) (page *wikitxt.RawPage, err error) {
	defer func(begin time.Time) {
		var size int
		var resolved string
		if page != nil {
			size, resolved = len(page.HTML), page.Title
		}
		logCall(ctx, f.logger, "fetch", err,
			"title", title,
			"resolved", resolved,
			"bytes", size,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, title)
}

// Ensure LoggingLangLinkService implements wikitxt.LangLinkService.
var _ wikitxt.LangLinkService = (*LoggingLangLinkService)(nil)

// LoggingLangLinkService wraps a LangLinkService with logging.
type LoggingLangLinkService struct {
	next   wikitxt.LangLinkService
	logger *slog.Logger
}

// NewLoggingLangLinkService creates a new LoggingLangLinkService.
func NewLoggingLangLinkService(next wikitxt.LangLinkService, logger *slog.Logger) *LoggingLangLinkService {
	return &LoggingLangLinkService{next: next, logger: logger}
}

// LangLink delegates to the wrapped service and logs the operation.
// A missing link is not logged as a failure.
func (s *LoggingLangLinkService) LangLink(ctx context.Context, title, lang string) (link string, err error) {
	defer func(begin time.Time) {
		logged := err
		if wikitxt.ErrorCode(err) == wikitxt.ENOTFOUND {
			logged = nil
		}
		logCall(ctx, s.logger, "langlink", logged,
			"title", title,
			"lang", lang,
			"link", link,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.LangLink(ctx, title, lang)
}

// Ensure LoggingImageDownloader implements wikitxt.ImageDownloader.
var _ wikitxt.ImageDownloader = (*LoggingImageDownloader)(nil)

// LoggingImageDownloader wraps an ImageDownloader with logging.
type LoggingImageDownloader struct {
	next   wikitxt.ImageDownloader
	logger *slog.Logger
}

// NewLoggingImageDownloader creates a new LoggingImageDownloader.
func NewLoggingImageDownloader(next wikitxt.ImageDownloader, logger *slog.Logger) *LoggingImageDownloader {
	return &LoggingImageDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader and logs the operation.
func (d *LoggingImageDownloader) Download(ctx context.Context, imageURL, filename string) (err error) {
	defer func(begin time.Time) {
		logCall(ctx, d.logger, "image download", err,
			"url", imageURL,
			"file", filename,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return d.next.Download(ctx, imageURL, filename)
}
