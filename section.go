package wikitxt

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	bracketRe = regexp.MustCompile(`\[.*?\]`)
	archiveRe = regexp.MustCompile(`[（(]\s*頁面存檔備份\s*，\s*存於\s*網際網路檔案館\s*[）)]`)
)

// Heading line prefixes used in linearized output.
const (
	SectionPrefix    = "## "
	SubsectionPrefix = "### "
)

// NormalizeHeading strips bracketed citation markers such as "[1]" or
// "[編輯]" from heading text.
func NormalizeHeading(s string) string {
	return strings.TrimSpace(bracketRe.ReplaceAllString(s, ""))
}

// IsPseudoHeading reports whether a paragraph reads like a bare heading:
// short, without final punctuation and without clause punctuation.
func IsPseudoHeading(s string) bool {
	if utf8.RuneCountInString(s) >= 50 {
		return false
	}
	for _, suffix := range []string{"。", ".", "！", "!", "？", "?"} {
		if strings.HasSuffix(s, suffix) {
			return false
		}
	}
	return !strings.ContainsAny(s, "，,、；;:：")
}

// headingText returns the heading title of a line and whether it is a heading.
func headingText(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "##") {
		return "", false
	}
	s = strings.ReplaceAll(s, "###", "")
	s = strings.ReplaceAll(s, "##", "")
	return strings.TrimSpace(s), true
}

// RemoveDuplicateHeadings drops a heading line that repeats the previous
// heading when only blank lines separate them.
func RemoveDuplicateHeadings(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	last := ""
	hasLast := false

	for _, line := range lines {
		if title, ok := headingText(line); ok {
			if hasLast && title == last {
				continue
			}
			out = append(out, line)
			last, hasLast = title, true
			continue
		}
		out = append(out, line)
		if strings.TrimSpace(line) != "" {
			hasLast = false
		}
	}

	return strings.Join(out, "\n")
}

// SeparateHeadings splits known heading pairs that were fused into one line.
func (r *Rules) SeparateHeadings(text string) string {
	for _, p := range headingPairs {
		text = strings.ReplaceAll(text, p[0]+p[1], p[0]+"\n\n"+p[1])
	}
	return text
}

// RemoveArchiveNotes removes web-archive backup notes left by citation templates.
func RemoveArchiveNotes(text string) string {
	return archiveRe.ReplaceAllString(text, "")
}
