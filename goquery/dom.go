package goquery

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var hspaceRe = regexp.MustCompile(`[ \t\x{00A0}]+`)

// squeeze trims s and collapses horizontal whitespace runs to one space.
func squeeze(s string) string {
	return hspaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

func isElement(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}

// hasAncestor reports whether any ancestor of n is one of the given elements.
func hasAncestor(n *html.Node, atoms ...atom.Atom) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && slices.Contains(atoms, p.DataAtom) {
			return true
		}
	}
	return false
}

// closestAncestor returns the nearest ancestor element with the given atom.
func closestAncestor(n *html.Node, a atom.Atom) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if isElement(p, a) {
			return p
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func classes(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(classes(n), class)
}

// classContains reports whether the lowercased class attribute contains any
// of the given substrings.
func classContains(n *html.Node, subs ...string) bool {
	c := strings.ToLower(attr(n, "class"))
	for _, s := range subs {
		if strings.Contains(c, s) {
			return true
		}
	}
	return false
}

// descendants returns the element descendants of n matching pred in
// document order. Subtrees for which skip returns true are not entered.
func descendants(n *html.Node, pred, skip func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if pred(c) {
				out = append(out, c)
			}
			if skip != nil && skip(c) {
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// strippedText concatenates the trimmed text of every text node under n.
func strippedText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(strippedText(c))
	}
	return b.String()
}

// contains reports whether d is n or a descendant of n.
func contains(n, d *html.Node) bool {
	for ; d != nil; d = d.Parent {
		if d == n {
			return true
		}
	}
	return false
}
