package wikitxt

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Residual math markup, removed in order. The last pattern drops any
// braces, backslashes and sub/superscript marks left behind.
var mathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\{\\displaystyle[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`),
	regexp.MustCompile(`\{\\[a-zA-Z]+[^}]*\}`),
	regexp.MustCompile(`\{\\displaystyle[^\n]*`),
	regexp.MustCompile(`(?s)\\begin\{[^}]+\}.*?\\end\{[^}]+\}`),
	regexp.MustCompile(`\\[a-zA-Z]+\{[^}]*\}`),
	regexp.MustCompile(`\\[a-zA-Z]+`),
	regexp.MustCompile(`\{[^{}]*\}`),
	regexp.MustCompile(`[{}\\^_]+`),
}

var tidyPairs = [][2]string{
	{"《", "》"}, {"〈", "〉"},
	{"「", "」"}, {"『", "』"},
	{"（", "）"},
}

var (
	hspaceRe      = regexp.MustCompile(`[ \t\x{00A0}]+`)
	pairRes       = compilePairs(tidyPairs)
	beforePunctRe = regexp.MustCompile(`\s+([，。、；：！？》）」』])`)
	fullDateRe    = regexp.MustCompile(`(\d{1,4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	monthDateRe   = regexp.MustCompile(`(\d{1,4})\s*年\s*(\d{1,2})\s*月`)
	doubleDashRe  = regexp.MustCompile(`\s*——\s*`)
	dashRe        = regexp.MustCompile(`\s*—\s*`)
	enumCommaRe   = regexp.MustCompile(`\s*、\s*`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
)

func compilePairs(pairs [][2]string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(pairs))
	for i, p := range pairs {
		res[i] = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(p[0]) + `\s*(.*?)\s*` + regexp.QuoteMeta(p[1]))
	}
	return res
}

// Tidy normalizes whitespace and punctuation in mixed CJK/Latin text.
// Spaces inside English phrases are kept; spaces next to CJK punctuation,
// inside brackets, inside dates and between CJK characters are removed.
// Tidy is idempotent.
func Tidy(text string) string {
	text = norm.NFC.String(text)

	for _, re := range mathPatterns {
		text = re.ReplaceAllString(text, "")
	}

	text = hspaceRe.ReplaceAllString(text, " ")

	for i, re := range pairRes {
		text = re.ReplaceAllString(text, tidyPairs[i][0]+"${1}"+tidyPairs[i][1])
	}

	text = beforePunctRe.ReplaceAllString(text, "${1}")

	text = fullDateRe.ReplaceAllString(text, "${1}年${2}月${3}日")
	text = monthDateRe.ReplaceAllString(text, "${1}年${2}月")

	text = doubleDashRe.ReplaceAllString(text, "——")
	text = dashRe.ReplaceAllString(text, "—")

	// Must run before the per-line pass: it can join lines.
	text = enumCommaRe.ReplaceAllString(text, "、")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			lines[i] = ""
			continue
		}
		if isShortHeading(stripped) {
			continue
		}
		lines[i] = removeCJKSpaces(stripped)
	}
	text = strings.Join(lines, "\n")

	return blankLinesRe.ReplaceAllString(text, "\n\n")
}

// isShortHeading reports whether a line is short enough and free of sentence
// punctuation to be kept verbatim.
func isShortHeading(s string) bool {
	return utf8.RuneCountInString(s) < 30 && !strings.ContainsAny(s, "。，！？")
}

// removeCJKSpaces drops horizontal whitespace runs that sit between two CJK
// ideographs.
func removeCJKSpaces(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if isHSpace(r) && i > 0 && isCJK(runes[i-1]) {
			j := i
			for j < len(runes) && isHSpace(runes[j]) {
				j++
			}
			if j < len(runes) && isCJK(runes[j]) {
				i = j - 1
				continue
			}
		}
		b.WriteRune(r)
	}

	return b.String()
}

func isHSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == ' '
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF)
}
