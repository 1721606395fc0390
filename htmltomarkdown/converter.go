// Package htmltomarkdown exports cleaned article markup as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/wikitxt"
)

// Ensure Converter implements wikitxt.Converter at compile time.
var _ wikitxt.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
	site string
}

// Option configures a Converter.
type Option func(*Converter)

// WithSite resolves root-relative links such as /wiki/X against site.
func WithSite(site string) Option {
	return func(c *Converter) {
		c.site = strings.TrimSuffix(site, "/")
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML content into Markdown.
// Returns EINVALID for blank input.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", wikitxt.Errorf(wikitxt.EINVALID, "empty HTML input")
	}

	var opts []converter.ConvertOptionFunc
	if c.site != "" {
		opts = append(opts, converter.WithDomain(c.site))
	}

	result, err := c.conv.ConvertString(html, opts...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result) + "\n", nil
}
