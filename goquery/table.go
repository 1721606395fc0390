package goquery

import (
	"strconv"
	"strings"

	"github.com/fwojciec/wikitxt"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Browsers clamp span attributes to these limits.
const (
	maxColspan = 1000
	maxRowspan = 65534
)

// gridCell is one slot of a logical table row.
type gridCell struct {
	text   string
	filled bool
}

// activeSpan is a rowspan still occupying a column.
type activeSpan struct {
	rowsLeft int
	value    string
}

// FlattenTable renders a table as one "• a | b" line per logical row,
// preceded by the caption when present. Merged cells are expanded into a
// grid: a rowspan repeats its value on each spanned row and a colspan fills
// the extra columns with empty placeholders. Rows of nested tables are
// ignored, trailing empty columns are trimmed and empty rows are dropped.
func FlattenTable(table *html.Node) []string {
	var lines []string

	if caption := tableCaption(table); caption != nil {
		if text := squeeze(JoinText(caption)); text != "" {
			lines = append(lines, text)
		}
	}

	var spans []*activeSpan
	for _, tr := range tableRows(table) {
		row := make([]gridCell, len(spans))
		for i, s := range spans {
			if s == nil {
				continue
			}
			row[i] = gridCell{text: s.value, filled: true}
			s.rowsLeft--
			if s.rowsLeft == 0 {
				spans[i] = nil
			}
		}

		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if !isElement(c, atom.Td) && !isElement(c, atom.Th) {
				continue
			}
			text := cellText(c)
			colspan := spanAttr(c, "colspan", maxColspan)
			rowspan := spanAttr(c, "rowspan", maxRowspan)

			col := freeRun(row, colspan)
			for len(row) < col+colspan {
				row = append(row, gridCell{})
				spans = append(spans, nil)
			}

			for off := range colspan {
				value := ""
				if off == 0 {
					value = text
				}
				row[col+off] = gridCell{text: value, filled: true}
				if rowspan > 1 {
					spans[col+off] = &activeSpan{rowsLeft: rowspan - 1, value: value}
				} else {
					spans[col+off] = nil
				}
			}
		}

		if line, ok := rowLine(row); ok {
			lines = append(lines, Bullet+line)
		}
	}

	return lines
}

// freeRun returns the leftmost column at which n consecutive slots of row
// are unoccupied. Slots past the end of row are free.
func freeRun(row []gridCell, n int) int {
	col := 0
	for {
		fits := true
		for off := range n {
			pos := col + off
			if pos < len(row) && row[pos].filled {
				col = pos + 1
				fits = false
				break
			}
		}
		if fits {
			return col
		}
	}
}

// rowLine joins a row with " | " after trimming trailing empty columns.
// It reports false when every column is empty.
func rowLine(row []gridCell) (string, bool) {
	texts := make([]string, len(row))
	for i, c := range row {
		texts[i] = c.text
	}
	for len(texts) > 0 && strings.TrimSpace(texts[len(texts)-1]) == "" {
		texts = texts[:len(texts)-1]
	}
	if len(texts) == 0 {
		return "", false
	}
	return strings.Join(texts, " | "), true
}

func cellText(cell *html.Node) string {
	return squeeze(strings.ReplaceAll(JoinText(cell), "\n", " "))
}

// spanAttr parses a colspan or rowspan attribute. Missing, invalid and
// non-positive values count as 1.
func spanAttr(n *html.Node, key string, limit int) int {
	v, err := strconv.Atoi(strings.TrimSpace(attr(n, key)))
	if err != nil || v < 1 {
		return 1
	}
	return min(v, limit)
}

// tableRows returns the rows that belong to table itself, skipping rows of
// nested tables.
func tableRows(table *html.Node) []*html.Node {
	return descendants(table,
		func(n *html.Node) bool { return n.DataAtom == atom.Tr },
		func(n *html.Node) bool { return n.DataAtom == atom.Table })
}

func tableCaption(table *html.Node) *html.Node {
	found := descendants(table,
		func(n *html.Node) bool { return n.DataAtom == atom.Caption },
		func(n *html.Node) bool { return n.DataAtom == atom.Table })
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// FlattenMulticol renders a multi-column table whose cells hold headings,
// paragraphs, definition lists and lists. Each column is walked in document
// order: headings and definition terms become "### " lines preceded by a
// blank line, paragraphs and definitions become text lines, list items
// become bullet or numbered lines.
func FlattenMulticol(table *html.Node) []string {
	var lines []string
	heading := func(text string) {
		if text == "" {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, wikitxt.SubsectionPrefix+text)
	}
	text := func(n *html.Node) {
		if t := squeeze(JoinText(n)); t != "" {
			lines = append(lines, t)
		}
	}

	cells := descendants(table,
		func(n *html.Node) bool { return n.DataAtom == atom.Td },
		func(n *html.Node) bool { return n.DataAtom == atom.Table })

	for _, td := range cells {
		blocks := descendants(td, func(n *html.Node) bool {
			switch n.DataAtom {
			case atom.H3, atom.H4, atom.H5, atom.H6, atom.P, atom.Dl, atom.Ul, atom.Ol:
				return true
			}
			return false
		}, func(n *html.Node) bool {
			// Definition lists and nested tables are rendered as a whole.
			return n.DataAtom == atom.Dl || n.DataAtom == atom.Table
		})

		for _, b := range blocks {
			switch b.DataAtom {
			case atom.Dl:
				for _, d := range definitionParts(b) {
					if d.DataAtom == atom.Dt {
						heading(squeeze(JoinText(d)))
					} else if !containsTable(d) {
						text(d)
					}
				}
			case atom.Ul, atom.Ol:
				lines = append(lines, RenderList(b)...)
			case atom.P:
				// Paragraphs in list items are part of the item text.
				if !withinItem(b, td) {
					text(b)
				}
			default:
				heading(squeeze(JoinText(b)))
			}
		}
	}

	return lines
}

// definitionParts returns the dt and dd elements of a definition list in
// document order, looking through wrapper elements such as div but not
// into nested definition lists.
func definitionParts(dl *html.Node) []*html.Node {
	return descendants(dl,
		func(n *html.Node) bool { return n.DataAtom == atom.Dt || n.DataAtom == atom.Dd },
		func(n *html.Node) bool {
			return n.DataAtom == atom.Dt || n.DataAtom == atom.Dd || n.DataAtom == atom.Dl || n.DataAtom == atom.Table
		})
}

// withinItem reports whether n sits in a list item below cell.
func withinItem(n, cell *html.Node) bool {
	for p := n.Parent; p != nil && p != cell; p = p.Parent {
		if isElement(p, atom.Li) {
			return true
		}
	}
	return false
}
