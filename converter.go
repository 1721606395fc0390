package wikitxt

// Converter renders cleaned article HTML as Markdown for the optional
// Markdown export. Input is Linearized.ContentHTML.
type Converter interface {
	Convert(html string) (string, error)
}
