package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/wikitxt"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxLabelValue caps a recovered label value, in runes.
const maxLabelValue = 120

// leaf is one text node or line break of a block in document order.
type leaf struct {
	node      *html.Node
	text      string
	lineBreak bool
}

// collectLeaves flattens block into its pre-order leaves. Citation markers
// and edit links are left out.
func collectLeaves(block *html.Node) []leaf {
	var out []leaf
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				out = append(out, leaf{node: c, text: c.Data})
			case html.ElementNode:
				if c.DataAtom == atom.Br {
					out = append(out, leaf{node: c, lineBreak: true})
					continue
				}
				if classContains(c, "reference", "mw-editsection") {
					continue
				}
				walk(c)
			}
		}
	}
	walk(block)
	return out
}

// labelStrategy recovers the value following label from the leaves of a
// block. It reports false when it finds nothing.
type labelStrategy func(block *html.Node, leaves []leaf, label string) (string, bool)

// labelStrategies are tried in order; the first value found wins.
var labelStrategies = []labelStrategy{
	anchorScan,
	markerScan,
}

// RepairLabels fills "<label>：" occurrences in text whose value is missing
// with the value found in the block's markup. Occurrences with no
// recoverable value are left unchanged.
func RepairLabels(block *html.Node, text string, rules *wikitxt.Rules) string {
	if rules == nil {
		rules = wikitxt.DefaultRules()
	}
	if len(rules.MissingLabels(text)) == 0 {
		return text
	}

	leaves := collectLeaves(block)
	return rules.FillMissingLabels(text, func(label string) (string, bool) {
		for _, strategy := range labelStrategies {
			if v, ok := strategy(block, leaves, label); ok {
				return v, true
			}
		}
		return "", false
	})
}

// anchorScan finds the first node whose own text is exactly label, skips
// forward to the next colon and collects text up to a stop character or
// line break.
func anchorScan(block *html.Node, leaves []leaf, label string) (string, bool) {
	anchor := findAnchor(block, label)
	if anchor == nil {
		return "", false
	}

	start := -1
	for i, l := range leaves {
		if contains(anchor, l.node) {
			start = i + 1
		}
	}
	if start < 0 {
		return "", false
	}

	var parts []string
	sawColon := false
	total := 0
	for _, l := range leaves[start:] {
		if l.lineBreak {
			break
		}
		s := l.text
		if !sawColon {
			pos := strings.Index(s, "：")
			width := len("：")
			if pos < 0 {
				pos, width = strings.Index(s, ":"), 1
			}
			if pos < 0 {
				continue
			}
			s = s[pos+width:]
			sawColon = true
		}

		chunk, stop := cutAtStop(s)
		if chunk != "" {
			parts = append(parts, chunk)
			total += utf8.RuneCountInString(chunk)
		}
		if stop || total > maxLabelValue*2 {
			break
		}
	}

	return joinValue(parts)
}

// findAnchor returns the first descendant of block, in pre-order, that is a
// text node or element whose trimmed text equals label.
func findAnchor(block *html.Node, label string) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode, html.ElementNode:
				if strippedText(c) == label {
					found = c
					return true
				}
				if walk(c) {
					return true
				}
			}
		}
		return false
	}
	walk(block)
	return found
}

// markerScan handles labels that share a text node with their colon: it
// takes the rest of the first leaf containing "<label>：" and continues
// through the following leaves.
func markerScan(_ *html.Node, leaves []leaf, label string) (string, bool) {
	marker := label + "："
	idx := -1
	var tail string
	for i, l := range leaves {
		if _, after, ok := strings.Cut(l.text, marker); ok {
			idx, tail = i, after
			break
		}
	}
	if idx < 0 {
		return "", false
	}

	var parts []string
	chunk, stop := cutAtStop(tail)
	if chunk != "" {
		parts = append(parts, chunk)
	}
	if stop {
		return joinValue(parts)
	}

	total := utf8.RuneCountInString(chunk)
	for _, l := range leaves[idx+1:] {
		if l.lineBreak {
			break
		}
		chunk, stop := cutAtStop(l.text)
		if chunk != "" {
			parts = append(parts, chunk)
			total += utf8.RuneCountInString(chunk)
		}
		if stop || total > maxLabelValue*3/2 {
			break
		}
	}

	return joinValue(parts)
}

// cutAtStop trims s and cuts it at the first stop character. It reports
// whether a stop character was found.
func cutAtStop(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, wikitxt.LabelStopChars); i >= 0 {
		return s[:i], true
	}
	return s, false
}

func joinValue(parts []string) (string, bool) {
	v := strings.TrimSpace(strings.Join(parts, " "))
	if v == "" {
		return "", false
	}
	if utf8.RuneCountInString(v) > maxLabelValue {
		v = string([]rune(v)[:maxLabelValue])
	}
	return v, true
}
