package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// wikiTitleSuffixRe matches the " - 維基百科，自由的百科全書" suffix of a page title.
var wikiTitleSuffixRe = regexp.MustCompile(`\s*[-–]\s*[^-–]*(?:维基百科|維基百科)[^-–]*$`)

// DetectRedirectHTML reports the target of a redirect page from its markup.
func DetectRedirectHTML(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}
	return detectRedirect(html, doc)
}

func detectRedirect(raw string, doc *goquery.Document) (string, bool) {
	if strings.Contains(raw, "Special:Redirect") {
		if href, ok := doc.Find(`link[rel~="dc:isVersionOf"]`).First().Attr("href"); ok {
			if i := strings.LastIndex(href, "/wiki/"); i >= 0 {
				if title := unescapeTitle(href[i+len("/wiki/"):]); title != "" {
					return title, true
				}
			}
		}

		title := strings.TrimSpace(doc.Find("title").First().Text())
		title = wikiTitleSuffixRe.ReplaceAllString(title, "")
		if title != "" && title != "重定向" {
			return title, true
		}
	}

	link := doc.Find(".redirectMsg .redirectText a").First()
	if link.Length() > 0 {
		title := strings.TrimSpace(link.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}
		if title != "" {
			return title, true
		}
	}

	return "", false
}

func unescapeTitle(s string) string {
	if t, err := url.PathUnescape(s); err == nil {
		s = t
	}
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}
