package wikitxt

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// TargetKind describes how a target line identifies an article.
type TargetKind string

// TargetKind constants.
const (
	TargetTitle TargetKind = "title"
	TargetURL   TargetKind = "url"
)

// Target is one requested article from a target list.
type Target struct {
	Raw        string     `json:"raw"`
	Kind       TargetKind `json:"kind"`
	SourceFile string     `json:"sourceFile"`
}

// Title returns the article title the target refers to.
func (t Target) Title() string {
	if t.Kind == TargetURL {
		return TitleFromURL(t.Raw)
	}
	return strings.TrimSpace(t.Raw)
}

// TitleFromURL returns the unescaped last path segment of an article URL.
// Example: https://zh.wikipedia.org/wiki/%E8%94%A1%E4%BE%9D%E6%9E%97 → 蔡依林
func TitleFromURL(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.EscapedPath()
	}
	segment := path[strings.LastIndex(path, "/")+1:]
	if title, err := url.PathUnescape(segment); err == nil {
		return title
	}
	return segment
}

// ArticleURL returns the canonical URL of an article on the given site.
func ArticleURL(site, title string) string {
	return strings.TrimSuffix(site, "/") + "/wiki/" + url.PathEscape(title)
}

// ImageRecord describes an image found in an article's infobox.
// The record is a side channel for an image download step.
type ImageRecord struct {
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	SourceURL string `json:"source_url"`
	Filename  string `json:"image_filename"`
	Caption   string `json:"caption"`
}

// Article is a fully processed document ready to be persisted.
type Article struct {
	// Title is the resolved display title.
	Title string

	// Query is the title that was originally requested.
	Query string

	SourceURL  string
	SourceFile string

	// RedirectedFrom is set when a redirect hop was followed.
	RedirectedFrom string

	// Text is the final, normalized plain text.
	Text string

	// Markdown is an optional export of the cleaned content HTML.
	Markdown string

	Images []ImageRecord
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.Title == "" {
		return Errorf(EINVALID, "article title required")
	}
	if strings.TrimSpace(a.Text) == "" {
		return Errorf(EEMPTY, "article text is empty: %s", a.Title)
	}
	return nil
}

// ArticleStore persists processed articles and failures.
type ArticleStore interface {
	// Exists reports whether output for the title is already present.
	Exists(title string) bool

	// SaveArticle writes the article text and its records.
	SaveArticle(ctx context.Context, article *Article) error

	// RecordFailure logs a target that could not be processed.
	RecordFailure(ctx context.Context, target Target, err error) error
}

// ArticleEntry is a catalog row describing a saved article.
type ArticleEntry struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Query          string    `json:"query"`
	SourceURL      string    `json:"sourceUrl"`
	SourceFile     string    `json:"sourceFile"`
	RedirectedFrom string    `json:"redirectedFrom,omitempty"`
	ContentHash    string    `json:"contentHash"`
	TextLength     int       `json:"textLength"`
	ImageCount     int       `json:"imageCount"`
	FetchedAt      time.Time `json:"fetchedAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *ArticleEntry) Validate() error {
	if e.Title == "" {
		return Errorf(EINVALID, "entry title required")
	}
	if e.SourceURL == "" {
		return Errorf(EINVALID, "entry source URL required")
	}
	return nil
}

// ArticleService represents a catalog of saved articles.
type ArticleService interface {
	// UpsertArticle creates the entry or replaces the entry with the same title.
	UpsertArticle(ctx context.Context, entry *ArticleEntry) error

	// FindArticleByTitle retrieves an entry by title.
	// Returns ENOTFOUND if the entry does not exist.
	FindArticleByTitle(ctx context.Context, title string) (*ArticleEntry, error)

	// FindArticles retrieves entries matching the filter.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*ArticleEntry, error)

	// DeleteArticle removes an entry by title.
	// Returns ENOTFOUND if the entry does not exist.
	DeleteArticle(ctx context.Context, title string) error
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	Title      *string `json:"title"`
	SourceFile *string `json:"sourceFile"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
