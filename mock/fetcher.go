package mock

import (
	"context"

	"github.com/fwojciec/wikitxt"
)

var _ wikitxt.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of wikitxt.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, title string) (*wikitxt.RawPage, error)
}

func (f *Fetcher) Fetch(ctx context.Context, title string) (*wikitxt.RawPage, error) {
	return f.FetchFn(ctx, title)
}

var _ wikitxt.LangLinkService = (*LangLinkService)(nil)

// LangLinkService is a mock implementation of wikitxt.LangLinkService.
type LangLinkService struct {
	LangLinkFn func(ctx context.Context, title, lang string) (string, error)
}

func (s *LangLinkService) LangLink(ctx context.Context, title, lang string) (string, error) {
	return s.LangLinkFn(ctx, title, lang)
}

var _ wikitxt.ImageDownloader = (*ImageDownloader)(nil)

// ImageDownloader is a mock implementation of wikitxt.ImageDownloader.
type ImageDownloader struct {
	DownloadFn func(ctx context.Context, imageURL, filename string) error
}

func (d *ImageDownloader) Download(ctx context.Context, imageURL, filename string) error {
	return d.DownloadFn(ctx, imageURL, filename)
}

var _ wikitxt.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of wikitxt.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
