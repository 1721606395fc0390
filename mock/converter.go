package mock

import "github.com/fwojciec/wikitxt"

var _ wikitxt.Converter = (*Converter)(nil)

// Converter is a mock implementation of wikitxt.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ wikitxt.Linearizer = (*Linearizer)(nil)

// Linearizer is a mock implementation of wikitxt.Linearizer.
type Linearizer struct {
	LinearizeFn func(html string, opts wikitxt.LinearizeOptions) (*wikitxt.Linearized, error)
}

func (l *Linearizer) Linearize(html string, opts wikitxt.LinearizeOptions) (*wikitxt.Linearized, error) {
	return l.LinearizeFn(html, opts)
}
