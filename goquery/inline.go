package goquery

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// joiner accumulates text fragments, inserting a space only between two
// ASCII letters or digits so that English words stay apart while CJK text
// is joined without gaps.
type joiner struct {
	b         strings.Builder
	lastASCII bool
}

func (j *joiner) text(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	first, _ := utf8.DecodeRuneInString(s)
	if j.b.Len() > 0 && j.lastASCII && isASCIIAlnum(first) {
		j.b.WriteByte(' ')
	}
	j.b.WriteString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	j.lastASCII = isASCIIAlnum(last)
}

func (j *joiner) lineBreak() {
	j.b.WriteByte(' ')
	j.lastASCII = false
}

// block appends pre-rendered text set off by spaces.
func (j *joiner) block(s string) {
	if s == "" {
		return
	}
	j.lineBreak()
	j.b.WriteString(s)
	j.lineBreak()
}

func (j *joiner) String() string {
	return j.b.String()
}

func isASCIIAlnum(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// JoinText returns the text of the subtree rooted at n as one string.
// Line breaks become single spaces and nested lists are rendered in place
// with their items separated by spaces. The result is not trimmed.
func JoinText(n *html.Node) string {
	if isElement(n, atom.Ul) || isElement(n, atom.Ol) {
		return strings.Join(RenderList(n), " ")
	}
	var j joiner
	j.walk(n)
	return j.String()
}

func (j *joiner) walk(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			j.text(c.Data)
		case html.ElementNode:
			switch c.DataAtom {
			case atom.Br:
				j.lineBreak()
			case atom.Ul, atom.Ol:
				j.block(strings.Join(RenderList(c), " "))
			default:
				j.walk(c)
			}
		}
	}
}

// ItemText returns the text of a list item, excluding the text of any
// nested list items. Nested lists are rendered separately when the walker
// reaches them.
func ItemText(li *html.Node) string {
	var j joiner
	j.walkItem(li)
	return j.String()
}

func (j *joiner) walkItem(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			j.text(c.Data)
		case html.ElementNode:
			switch c.DataAtom {
			case atom.Br:
				j.lineBreak()
			case atom.Li:
				// nested item
			default:
				j.walkItem(c)
			}
		}
	}
}
