package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors match subtrees that never carry article content.
var noiseSelectors = []string{
	"style", "script", "noscript",
	"sup.reference", "span.mw-editsection",
	"table.infobox", "div.infobox", ".infobox",
	"table.navbox", "div.navbox",
	"div.reflist", "ol.references", "div.metadata",
	"div.ambox", "table.ambox", "div.mbox-small", "div.messagebox",
	"div.hatnote", "div.dablink", "div.rellink",
	"table.sidebar", "div.sidebar", ".sidebar",
}

var noiseSelector = strings.Join(noiseSelectors, ", ")

// RemoveNoise detaches non-content subtrees from doc in place.
//
// Collapsible blocks are removed when they belong to a navigation box and
// expanded when they sit inside a table, where they usually hold track
// listings and similar content.
func RemoveNoise(doc *goquery.Document) {
	doc.Find(noiseSelector).Remove()

	doc.Find("div.mw-collapsible").Each(func(_ int, s *goquery.Selection) {
		switch {
		case s.HasClass("navbox") || s.ParentsFiltered("div.navbox").Length() > 0:
			s.Remove()
		case s.ParentsFiltered("table").Length() > 0:
			s.RemoveClass("mw-collapsible", "mw-collapsed")
		}
	})
}
