package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/wikitxt"
)

// Ensure Fetcher implements wikitxt.Fetcher at compile time.
var _ wikitxt.Fetcher = (*Fetcher)(nil)

// fetchStrategy retrieves a page one way.
type fetchStrategy func(ctx context.Context, title string) (*wikitxt.RawPage, error)

// Fetcher retrieves rendered article markup, trying the Action API first
// and the REST API second.
type Fetcher struct {
	client     *Client
	strategies []fetchStrategy
}

// NewFetcher creates a new Fetcher using client.
func NewFetcher(client *Client) *Fetcher {
	f := &Fetcher{client: client}
	f.strategies = []fetchStrategy{f.fetchAction, f.fetchREST}
	return f
}

// Fetch returns the rendered markup of the article and its display title.
// Returns ENOTFOUND if every strategy reports the page missing.
func (f *Fetcher) Fetch(ctx context.Context, title string) (*wikitxt.RawPage, error) {
	if strings.TrimSpace(title) == "" {
		return nil, wikitxt.Errorf(wikitxt.EINVALID, "title required")
	}

	var errs []error
	for _, strategy := range f.strategies {
		page, err := strategy(ctx, title)
		if err == nil {
			return page, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, err)
	}

	if allNotFound(errs) {
		return nil, wikitxt.Errorf(wikitxt.ENOTFOUND, "article not found: %s", title)
	}
	return nil, fmt.Errorf("fetch %s: %w", title, errors.Join(errs...))
}

func allNotFound(errs []error) bool {
	for _, err := range errs {
		if wikitxt.ErrorCode(err) != wikitxt.ENOTFOUND {
			return false
		}
	}
	return len(errs) > 0
}

// apiError is the error object of an Action API response.
type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type parseResponse struct {
	Parse *struct {
		Title        string `json:"title"`
		DisplayTitle string `json:"displaytitle"`
		Text         struct {
			HTML string `json:"*"`
		} `json:"text"`
	} `json:"parse"`
	Error *apiError `json:"error"`
}

func (f *Fetcher) fetchAction(ctx context.Context, title string) (*wikitxt.RawPage, error) {
	c := f.client
	u := c.apiURLWith(url.Values{
		"action":  {"parse"},
		"page":    {title},
		"prop":    {"text|displaytitle"},
		"variant": {c.variant},
		"maxlag":  {"5"},
	})

	return withRetry(ctx, c.delays, func(ctx context.Context) (*wikitxt.RawPage, error) {
		body, err := c.getOnce(ctx, u)
		if err != nil {
			return nil, err
		}

		var resp parseResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, permanent(fmt.Errorf("decode parse response: %w", err))
		}
		if err := checkAPIError(resp.Error); err != nil {
			return nil, err
		}
		if resp.Parse == nil || resp.Parse.Text.HTML == "" {
			return nil, permanent(wikitxt.Errorf(wikitxt.ENOTFOUND, "parse response has no content: %s", title))
		}

		resolved := CleanDisplayTitle(resp.Parse.DisplayTitle)
		if resolved == "" {
			resolved = resp.Parse.Title
		}
		if resolved == "" {
			resolved = title
		}
		return &wikitxt.RawPage{HTML: resp.Parse.Text.HTML, Title: resolved}, nil
	})
}

// checkAPIError converts an Action API error object. Replication lag is
// retryable; a missing page is not.
func checkAPIError(e *apiError) error {
	switch {
	case e == nil:
		return nil
	case e.Code == "maxlag":
		return fmt.Errorf("server under replication lag: %s", e.Info)
	case e.Code == "missingtitle" || e.Code == "invalidtitle":
		return permanent(wikitxt.Errorf(wikitxt.ENOTFOUND, "%s: %s", e.Code, e.Info))
	default:
		return permanent(fmt.Errorf("api error %s: %s", e.Code, e.Info))
	}
}

func (f *Fetcher) fetchREST(ctx context.Context, title string) (*wikitxt.RawPage, error) {
	body, err := f.client.get(ctx, f.client.restURL+"/"+url.PathEscape(title))
	if err != nil {
		return nil, err
	}

	html := string(body)
	resolved := DisplayTitle(html)
	if resolved == "" {
		resolved = title
	}
	return &wikitxt.RawPage{HTML: html, Title: resolved}, nil
}

// CleanDisplayTitle returns the plain text of a display title, which the
// API returns as markup.
func CleanDisplayTitle(titleHTML string) string {
	if titleHTML == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(titleHTML))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// DisplayTitle extracts the display title from a full page: the
// mw:displaytitle meta tag, the first heading or the document title.
func DisplayTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if v, ok := doc.Find(`meta[property="mw:displaytitle"]`).First().Attr("content"); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	for _, sel := range []string{"#firstHeading", "title"} {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
				return t
			}
		}
	}
	return ""
}
