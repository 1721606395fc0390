package wikitxt

import (
	"regexp"
	"strings"
)

var redirectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)重定向到：\s*•\s*([^\n•]+)`),
	regexp.MustCompile(`(?i)重新導向至：\s*•\s*([^\n•]+)`),
	regexp.MustCompile(`(?i)#REDIRECT\s*\[\[([^\]]+)\]\]`),
	regexp.MustCompile(`(?i)#重定向\s*\[\[([^\]]+)\]\]`),
}

// DetectRedirect scans linearized text for a redirect marker and returns
// the target title. Piped link text after "|" is dropped.
func DetectRedirect(text string) (string, bool) {
	for _, re := range redirectPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		target := strings.TrimSpace(m[1])
		if i := strings.Index(target, "|"); i >= 0 {
			target = strings.TrimSpace(target[:i])
		}
		if target != "" {
			return target, true
		}
	}
	return "", false
}
