package crawl

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/wikitxt"
)

// DefaultSite is the wiki articles are resolved against.
const DefaultSite = "https://zh.wikipedia.org"

// Processor turns one target into a finished article: fetch, linearize,
// follow at most one redirect, fill missing labels, normalize.
type Processor struct {
	Fetcher    wikitxt.Fetcher
	Linearizer wikitxt.Linearizer

	// LangLinks fills labels whose value is missing. Optional.
	LangLinks wikitxt.LangLinkService

	// Converter produces the Markdown export. Optional.
	Converter wikitxt.Converter

	// Rules defaults to wikitxt.DefaultRules.
	Rules *wikitxt.Rules

	// Site defaults to DefaultSite.
	Site string

	// Images enables infobox image records.
	Images bool
}

// Process fetches and converts a single target.
// Returns EEMPTY if the article produced no text and EREDIRECT if a
// redirect target could not be fetched.
func (p *Processor) Process(ctx context.Context, target wikitxt.Target) (*wikitxt.Article, error) {
	query := target.Title()
	if query == "" {
		return nil, wikitxt.Errorf(wikitxt.EINVALID, "empty target: %q", target.Raw)
	}

	page, lin, err := p.load(ctx, query)
	if err != nil {
		return nil, err
	}

	// A redirect page is followed once. The markup check wins over the
	// text check, and a hop never triggers another.
	var redirectedFrom string
	next := lin.RedirectTarget
	if next == "" {
		next, _ = wikitxt.DetectRedirect(lin.Text)
	}
	if next != "" && next != query {
		page, lin, err = p.load(ctx, next)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			return nil, wikitxt.Errorf(wikitxt.EREDIRECT, "redirect %s -> %s: %v", query, next, err)
		}
		redirectedFrom = query
	}

	text := p.fillLabels(ctx, lin.Text, page.Title)
	text = wikitxt.Tidy(text)
	if strings.TrimSpace(text) == "" {
		return nil, wikitxt.Errorf(wikitxt.EEMPTY, "no text extracted: %s", page.Title)
	}

	article := &wikitxt.Article{
		Title:          page.Title,
		Query:          query,
		SourceURL:      wikitxt.ArticleURL(p.site(), page.Title),
		SourceFile:     target.SourceFile,
		RedirectedFrom: redirectedFrom,
		Text:           text,
		Images:         lin.Images,
	}

	if p.Converter != nil && lin.ContentHTML != "" {
		md, err := p.Converter.Convert(lin.ContentHTML)
		if err != nil {
			return nil, fmt.Errorf("markdown %s: %w", page.Title, err)
		}
		article.Markdown = md
	}

	return article, nil
}

// load fetches and linearizes one title.
func (p *Processor) load(ctx context.Context, title string) (*wikitxt.RawPage, *wikitxt.Linearized, error) {
	page, err := p.Fetcher.Fetch(ctx, title)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", title, err)
	}
	if page.Title == "" {
		page.Title = title
	}

	lin, err := p.Linearizer.Linearize(page.HTML, wikitxt.LinearizeOptions{
		Title:     page.Title,
		SourceURL: wikitxt.ArticleURL(p.site(), title),
		Rules:     p.rules(),
		Images:    p.Images,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("linearize %s: %w", title, err)
	}
	return page, lin, nil
}

// fillLabels looks up missing language labels through interlanguage links,
// once per language. Lookup failures leave the label unchanged.
func (p *Processor) fillLabels(ctx context.Context, text, title string) string {
	if p.LangLinks == nil {
		return text
	}
	rules := p.rules()
	found := make(map[string]string)
	return rules.FillMissingLabels(text, func(label string) (string, bool) {
		code, ok := rules.LanguageCode(label)
		if !ok {
			return "", false
		}
		v, seen := found[code]
		if !seen {
			if link, err := p.LangLinks.LangLink(ctx, title, code); err == nil {
				v = link
			}
			found[code] = v
		}
		return v, v != ""
	})
}

func (p *Processor) rules() *wikitxt.Rules {
	if p.Rules == nil {
		return wikitxt.DefaultRules()
	}
	return p.Rules
}

func (p *Processor) site() string {
	if p.Site == "" {
		return DefaultSite
	}
	return p.Site
}
