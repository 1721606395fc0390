package goquery

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Bullet prefixes unordered list items and table rows.
const Bullet = "• "

// RenderList renders the direct items of a ul or ol element, one line per
// non-empty item. Ordered items are numbered by their position among the
// direct li children, so an empty item still consumes its number.
func RenderList(n *html.Node) []string {
	ordered := isElement(n, atom.Ol)

	var lines []string
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !isElement(c, atom.Li) {
			continue
		}
		i++
		text := squeeze(ItemText(c))
		if text == "" {
			continue
		}
		lines = append(lines, listPrefix(ordered, i)+text)
	}
	return lines
}

func listPrefix(ordered bool, i int) string {
	if ordered {
		return strconv.Itoa(i) + ". "
	}
	return Bullet
}
