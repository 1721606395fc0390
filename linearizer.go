package wikitxt

// LinearizeOptions configures a single linearization.
type LinearizeOptions struct {
	// Title and SourceURL are copied into image records.
	Title     string
	SourceURL string

	// Rules holds the fixed tables. DefaultRules is used when nil.
	Rules *Rules

	// Images enables collection of infobox image records.
	Images bool
}

// Linearized is the result of walking one document.
type Linearized struct {
	// Text is the assembled text before normalization.
	Text string

	// ContentHTML is the content root after noise removal.
	ContentHTML string

	// RedirectTarget is set when the markup is a redirect page.
	RedirectTarget string

	Images []ImageRecord
}

// Linearizer turns rendered article markup into ordered text lines.
type Linearizer interface {
	Linearize(html string, opts LinearizeOptions) (*Linearized, error)
}
