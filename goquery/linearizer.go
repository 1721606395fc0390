package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/wikitxt"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Linearizer implements wikitxt.Linearizer.
var _ wikitxt.Linearizer = (*Linearizer)(nil)

// contentRootSelectors locate the article body, most specific first.
var contentRootSelectors = []string{
	"#mw-content-text .mw-parser-output",
	"div.mw-parser-output",
	"body",
}

const blockSelector = "h2, h3, p, ul, ol, dl, table"

// skippedTableClasses mark tables that hold boxes rather than content.
var skippedTableClasses = []string{"infobox", "navbox", "ambox", "mbox", "messagebox"}

// Linearizer converts rendered wiki articles into ordered text lines
// using goquery for DOM traversal.
type Linearizer struct{}

// NewLinearizer creates a new Linearizer.
func NewLinearizer() *Linearizer {
	return &Linearizer{}
}

// Linearize parses html and walks its content blocks in document order.
// The returned text is not normalized; callers apply wikitxt.Tidy once any
// redirect has been resolved.
func (l *Linearizer) Linearize(html string, opts wikitxt.LinearizeOptions) (*wikitxt.Linearized, error) {
	rules := opts.Rules
	if rules == nil {
		rules = wikitxt.DefaultRules()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, wikitxt.Errorf(wikitxt.EINVALID, "failed to parse HTML: %v", err)
	}

	out := &wikitxt.Linearized{}
	out.RedirectTarget, _ = detectRedirect(html, doc)
	if opts.Images {
		out.Images = ExtractImages(doc, opts.Title, opts.SourceURL)
	}

	RemoveNoise(doc)
	root := contentRoot(doc)

	w := newWalker(rules)
	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		w.visit(s.Get(0))
	})

	out.ContentHTML, err = root.Html()
	if err != nil {
		return nil, wikitxt.Errorf(wikitxt.EINTERNAL, "failed to render content: %v", err)
	}

	text := strings.Join(w.lines, "\n")
	text = wikitxt.RemoveDuplicateHeadings(text)
	text = rules.SeparateHeadings(text)
	out.Text = wikitxt.RemoveArchiveNotes(text)

	return out, nil
}

func contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, sel := range contentRootSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return doc.Selection
}

// walker assembles output lines from content blocks. Sections whose level-2
// heading matches an excluded keyword are skipped up to the next level-2
// heading.
type walker struct {
	rules    *wikitxt.Rules
	lines    []string
	seen     map[string]bool
	skipping bool
}

func newWalker(rules *wikitxt.Rules) *walker {
	return &walker{
		rules: rules,
		seen:  make(map[string]bool),
	}
}

func (w *walker) visit(n *html.Node) {
	switch n.DataAtom {
	case atom.H2:
		title := wikitxt.NormalizeHeading(squeeze(JoinText(n)))
		if w.rules.IsExcluded(title) {
			w.skipping = true
			return
		}
		w.skipping = false
		if w.heading(wikitxt.SectionPrefix, title) {
			w.emit("")
		}
		return
	case atom.H3:
		if w.skipping || insideMulticol(n) {
			return
		}
		w.heading(wikitxt.SubsectionPrefix, wikitxt.NormalizeHeading(squeeze(JoinText(n))))
		return
	}

	if w.skipping {
		return
	}

	switch n.DataAtom {
	case atom.P:
		w.paragraph(n)
	case atom.Ul, atom.Ol:
		// Lists inside tables and definition lists are already part of
		// the enclosing block's text.
		if hasAncestor(n, atom.Table, atom.Dt) || insideEmittedDefinition(n) {
			return
		}
		w.emit(RenderList(n)...)
	case atom.Dl:
		if hasAncestor(n, atom.Table) || insideEmittedDefinition(n) {
			return
		}
		w.definitionList(n)
	case atom.Table:
		w.table(n)
	}
}

// heading emits a heading line preceded by a blank line. Empty and
// previously seen titles are dropped.
func (w *walker) heading(prefix, title string) bool {
	if title == "" || w.seen[title] {
		return false
	}
	w.seen[title] = true
	w.blank()
	w.emit(prefix + title)
	return true
}

func (w *walker) paragraph(n *html.Node) {
	// Paragraphs inside tables, list items and emitted definitions are
	// already part of that block's text.
	if hasAncestor(n, atom.Table, atom.Li) {
		return
	}
	if insideEmittedDefinition(n) {
		return
	}
	text := squeeze(JoinText(n))
	if text == "" {
		return
	}
	if !wikitxt.IsPseudoHeading(text) {
		text = RepairLabels(n, text, w.rules)
	}
	w.emit(text)
}

func (w *walker) definitionList(n *html.Node) {
	for _, c := range definitionParts(n) {
		switch c.DataAtom {
		case atom.Dt:
			if text := squeeze(JoinText(c)); text != "" {
				w.emit(wikitxt.SubsectionPrefix + text)
			}
		case atom.Dd:
			if containsTable(c) {
				continue
			}
			if text := squeeze(JoinText(c)); text != "" {
				w.emit(text)
			}
		}
	}
}

func (w *walker) table(n *html.Node) {
	if hasAncestor(n, atom.Table) || classContains(n, skippedTableClasses...) {
		return
	}
	if classContains(n, "multicol") {
		w.emit(FlattenMulticol(n)...)
		return
	}
	w.emit(FlattenTable(n)...)
}

func (w *walker) emit(lines ...string) {
	w.lines = append(w.lines, lines...)
}

// blank appends a blank line unless the output is empty or already ends
// with one.
func (w *walker) blank() {
	if len(w.lines) > 0 && w.lines[len(w.lines)-1] != "" {
		w.lines = append(w.lines, "")
	}
}

// insideEmittedDefinition reports whether n belongs to a dd whose text is
// emitted as a whole.
func insideEmittedDefinition(n *html.Node) bool {
	dd := closestAncestor(n, atom.Dd)
	return dd != nil && !containsTable(dd)
}

func containsTable(n *html.Node) bool {
	return len(descendants(n, func(d *html.Node) bool { return d.DataAtom == atom.Table }, nil)) > 0
}

func insideMulticol(n *html.Node) bool {
	for p := closestAncestor(n, atom.Table); p != nil; p = closestAncestor(p, atom.Table) {
		if hasClass(p, "multicol") {
			return true
		}
	}
	return false
}
