package wikitxt

import "context"

// RawPage is the rendered markup of an article as returned by the wiki.
type RawPage struct {
	HTML string

	// Title is the resolved display title, which may differ from the
	// requested one after server-side normalization.
	Title string
}

// Fetcher retrieves rendered article markup.
// Implementations own retries and backoff; a returned error means the
// article could not be retrieved at all.
type Fetcher interface {
	Fetch(ctx context.Context, title string) (*RawPage, error)
}

// LangLinkService looks up the title of an article in another language.
type LangLinkService interface {
	// LangLink returns the title of the interlanguage link for lang.
	// Returns ENOTFOUND if the article has no such link.
	LangLink(ctx context.Context, title, lang string) (string, error)
}

// ImageDownloader stores an image under a local filename.
type ImageDownloader interface {
	Download(ctx context.Context, imageURL, filename string) error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
