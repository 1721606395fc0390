package goquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/wikitxt"
)

// imageCellSelector matches infobox cells that usually hold a picture.
const imageCellSelector = "td.infobox-image, .infobox-image, .ib-settlement-cols-cell, " +
	"td.maptable, .infobox-full-data, .tmulti, .thumb, .tsingle"

// imageSkipKeywords mark icons, map tiles and template graphics.
var imageSkipKeywords = []string{
	"edit", "icon", "20px", "commons/thumb/8/8a/ooj",
	"emblem_of_the_kuomintang", "independent_candidate_icon",
	"disambig_gray", "information_icon4",
	"40px-", "60px-",
	"chinese_characters", "characters", "phonetic", "template",
	"maps.wikimedia.org", "osm-intl", "maplink", "mapframe",
}

const (
	minImageSide  = 80
	maxCaptionLen = 100
	defaultSite   = "https://zh.wikipedia.org"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExtractImages collects records for the pictures in the document's
// infoboxes. It must run before RemoveNoise, which drops infoboxes.
func ExtractImages(doc *goquery.Document, title, sourceURL string) []wikitxt.ImageRecord {
	site := siteOf(sourceURL)
	seen := make(map[string]bool)
	var records []wikitxt.ImageRecord

	doc.Find("table.infobox").Each(func(_ int, infobox *goquery.Selection) {
		infobox.Find(imageCellSelector).Each(func(_ int, cell *goquery.Selection) {
			img := cell.Find("img").First()
			if img.Length() == 0 {
				return
			}
			src := img.AttrOr("src", "")
			if src == "" {
				src = img.AttrOr("data-src", "")
			}
			if src == "" {
				return
			}
			src = absoluteURL(site, src)
			if skipImage(src, img) {
				return
			}

			imageURL := originalImageURL(src)
			if seen[imageURL] {
				return
			}
			seen[imageURL] = true

			records = append(records, wikitxt.ImageRecord{
				Title:     title,
				ImageURL:  imageURL,
				SourceURL: sourceURL,
				Filename:  ImageFilename(imageURL),
				Caption:   imageCaption(img, infobox),
			})
		})
	})

	return records
}

func siteOf(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return defaultSite
	}
	return u.Scheme + "://" + u.Host
}

func absoluteURL(site, src string) string {
	switch {
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "/"):
		return site + src
	}
	return src
}

// skipImage reports whether an image is an icon, a map tile, an SVG or a
// picture of text rather than a photo.
func skipImage(src string, img *goquery.Selection) bool {
	lower := strings.ToLower(src)
	if strings.HasSuffix(lower, ".svg") || strings.Contains(lower, ".svg/") {
		return true
	}
	for _, k := range imageSkipKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}

	w, wok := pixelAttr(img, "width")
	h, hok := pixelAttr(img, "height")
	if wok && w < minImageSide || hok && h < minImageSide {
		return true
	}
	if wok && hok && w > 0 && h > 0 && float64(w)/float64(h) > 3 && w < 300 {
		return true
	}
	return false
}

func pixelAttr(s *goquery.Selection, key string) (int, bool) {
	v, ok := s.Attr(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// originalImageURL rewrites a thumbnail URL such as
// .../commons/thumb/5/57/A.jpg/250px-A.jpg to the original file
// .../commons/5/57/A.jpg.
func originalImageURL(src string) string {
	if !strings.Contains(src, "px-") || strings.Count(src, "/thumb/") != 1 {
		return src
	}
	head, tail, _ := strings.Cut(src, "/thumb/")
	i := strings.LastIndex(tail, "/")
	if i < 0 {
		return src
	}
	return head + "/" + tail[:i]
}

// ImageFilename returns the local filename for an image URL: the first 12
// hex digits of its hash plus the file extension.
func ImageFilename(imageURL string) string {
	ext := "jpg"
	path := imageURL
	if u, err := url.Parse(imageURL); err == nil {
		path = u.Path
	}
	path = strings.ToLower(path)
	for _, e := range []string{"jpg", "jpeg", "png", "gif", "webp", "svg"} {
		if strings.HasSuffix(path, "."+e) {
			ext = e
			break
		}
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(imageURL))[:12] + "." + ext
}

func imageCaption(img, infobox *goquery.Selection) string {
	caption := ""
	if tsingle := img.Closest("div.tsingle"); tsingle.Length() > 0 {
		caption = selectionText(tsingle.Find("div.thumbcaption").First())
	}
	if caption == "" {
		infobox.Find("div.infobox-caption").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			caption = selectionText(s)
			return caption == ""
		})
	}
	if caption == "" {
		caption = img.AttrOr("title", "")
	}
	if caption == "" {
		caption = img.AttrOr("alt", "")
	}
	if caption == "" {
		caption = "圖片"
	}

	caption = whitespaceRe.ReplaceAllString(strings.TrimSpace(caption), " ")
	if utf8.RuneCountInString(caption) > maxCaptionLen {
		caption = string([]rune(caption)[:maxCaptionLen]) + "..."
	}
	return caption
}

func selectionText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	return strippedText(s.Get(0))
}
