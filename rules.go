package wikitxt

import (
	"regexp"
	"slices"
	"strings"
	"sync"
)

// defaultExcludedSections lists heading keywords whose sections are dropped.
// Matching is by substring, so "參考" also covers "參考資料".
var defaultExcludedSections = []string{
	"引用資料", "參考書目", "相關學術研究書目", "參考", "參考來源", "參考資料",
	"外部連結", "相關條目", "擴展閱讀", "延伸閱讀", "參見", "參考文獻", "腳註",
	"註釋", "註解", "注解", "備註", "關聯項目", "資料來源", "注釋", "註腳",
	"注腳", "關連項目", "備注",
}

// labelLanguages maps label words to BCP-47 codes for interlanguage lookups.
// 學名 is not a language but scientific names are usually Latin.
var labelLanguages = map[string]string{
	"英語": "en", "英文": "en", "English": "en",
	"日語": "ja", "日文": "ja", "Japanese": "ja",
	"韓語": "ko", "韓文": "ko",
	"法語": "fr", "法文": "fr",
	"德語": "de", "德文": "de",
	"西班牙語": "es", "西文": "es", "西語": "es",
	"俄語": "ru", "俄文": "ru",
	"義大利語": "it", "義文": "it", "意大利語": "it", "意文": "it",
	"葡萄牙語": "pt", "葡文": "pt",
	"拉丁語": "la", "拉丁文": "la",
	"越南語": "vi", "越文": "vi",
	"泰語":  "th",
	"馬來語": "ms", "馬來文": "ms",
	"印尼語": "id", "印尼文": "id",
	"粵語": "yue", "廣東話": "yue",
	"閩南語": "nan", "臺語": "nan", "台語": "nan", "閩南話": "nan",
	"客語": "hak",
	"學名": "la",
}

// labels is the label vocabulary in match order.
var labels = []string{
	"英語", "英文", "English", "日語", "日文", "Japanese", "韓語", "韓文",
	"法語", "法文", "德語", "德文", "西班牙語", "西文", "西語", "俄語", "俄文",
	"義大利語", "義文", "意大利語", "意文", "葡萄牙語", "葡文", "拉丁語", "拉丁文",
	"越南語", "越文", "泰語", "馬來語", "馬來文", "印尼語", "印尼文", "粵語",
	"廣東話", "閩南語", "臺語", "台語", "閩南話", "客語",
	"學名", "藝名", "本名", "原名", "舊稱", "又名", "別名", "別稱", "外文",
}

// headingPairs are section titles that rendering sometimes fuses together.
var headingPairs = [][2]string{
	{"影音作品", "其他音樂錄影帶"},
	{"個人生活", "感情狀況"},
	{"演藝經歷", "音樂作品"},
	{"作品列表", "音樂作品"},
	{"獲獎記錄", "個人榮譽"},
}

// LabelStopChars terminate value collection after a label.
const LabelStopChars = "，,、；;)）」』】〉。."

// Rules holds the fixed tables used while linearizing a document.
// A Rules value is immutable and safe for concurrent use.
type Rules struct {
	excluded []string
	missing  *regexp.Regexp
}

var defaultRules = sync.OnceValue(func() *Rules {
	return NewRules(defaultExcludedSections)
})

// DefaultRules returns the shared Rules built from the default tables.
func DefaultRules() *Rules {
	return defaultRules()
}

// DefaultExcludedSections returns a copy of the default excluded keywords.
func DefaultExcludedSections() []string {
	return slices.Clone(defaultExcludedSections)
}

// NewRules creates Rules with the given excluded-section keywords.
// Blank keywords are ignored.
func NewRules(excluded []string) *Rules {
	r := &Rules{}
	for _, k := range excluded {
		if k = strings.TrimSpace(k); k != "" {
			r.excluded = append(r.excluded, k)
		}
	}

	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = regexp.QuoteMeta(l)
	}
	// A label followed by a full-width colon and directly by a separator
	// means the value was dropped.
	r.missing = regexp.MustCompile(`(` + strings.Join(quoted, "|") + `)：\s*[，、；)）]`)
	return r
}

// ExcludedSections returns the excluded-section keywords.
func (r *Rules) ExcludedSections() []string {
	return slices.Clone(r.excluded)
}

// IsExcluded reports whether a normalized heading contains any excluded keyword.
func (r *Rules) IsExcluded(heading string) bool {
	for _, k := range r.excluded {
		if strings.Contains(heading, k) {
			return true
		}
	}
	return false
}

// LanguageCode returns the language code associated with a label.
func (r *Rules) LanguageCode(label string) (string, bool) {
	code, ok := labelLanguages[label]
	return code, ok
}

// HeadingPairs returns the heading pairs split by SeparateHeadings.
func (r *Rules) HeadingPairs() [][2]string {
	return slices.Clone(headingPairs)
}

// MissingLabels returns the labels in text whose value is missing,
// in order of appearance.
func (r *Rules) MissingLabels(text string) []string {
	var out []string
	for _, m := range r.missing.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// FillMissingLabels inserts a value after every "<label>：" whose value is
// missing. lookup is called once per occurrence; when it reports no value
// the occurrence is left unchanged.
func (r *Rules) FillMissingLabels(text string, lookup func(label string) (string, bool)) string {
	matches := r.missing.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		label := text[m[2]:m[3]]
		end := m[3] + len("：")
		b.WriteString(text[last:end])
		if v, ok := lookup(label); ok && v != "" {
			b.WriteString(v)
		}
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}
