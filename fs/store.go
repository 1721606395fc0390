package fs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fwojciec/wikitxt"
)

// Output layout below the store directory.
const (
	TextDir      = "txt"
	MarkdownDir  = "md"
	DataFile     = "jsonl/all_data.jsonl"
	ImagesFile   = "images/images_info.jsonl"
	FailuresFile = "_failures.jsonl"

	// Variant is recorded with every article.
	Variant = "zh-tw"
)

const maxFilenameBytes = 200

// Ensure Store implements wikitxt.ArticleStore at compile time.
var _ wikitxt.ArticleStore = (*Store)(nil)

// Store writes articles below a directory: one text file per article, an
// optional Markdown file, and JSONL records for articles, images and
// failures.
type Store struct {
	mu    sync.Mutex
	dir   string
	force bool
}

// NewStore creates a Store writing below dir. With force set, a saved
// article replaces the data record of the same title instead of adding a
// second one.
func NewStore(dir string, force bool) *Store {
	return &Store{dir: dir, force: force}
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// ImagesDir returns the directory images are downloaded to.
func (s *Store) ImagesDir() string {
	return filepath.Join(s.dir, filepath.Dir(ImagesFile))
}

// SafeFilename replaces characters that are invalid in file names and
// caps the result at 200 bytes without splitting a character.
func SafeFilename(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`\/*?:"<>|`, r) {
			return '_'
		}
		return r
	}, title)

	if len(name) <= maxFilenameBytes {
		return name
	}
	cut := maxFilenameBytes
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

// TextPath returns the relative path of an article's text file.
func TextPath(title string) string {
	return filepath.Join(TextDir, SafeFilename(title)+".txt")
}

// Exists reports whether the text file for title exists.
func (s *Store) Exists(title string) bool {
	_, err := os.Stat(filepath.Join(s.dir, TextPath(title)))
	return err == nil
}

// Record is one line of the article data file.
type Record struct {
	Title          string     `json:"title"`
	OriginalQuery  string     `json:"original_query"`
	SourceURL      string     `json:"source_url"`
	Variant        string     `json:"variant"`
	TextLength     int        `json:"text_length"`
	Text           string     `json:"text"`
	OutFile        string     `json:"out_file"`
	SourceFile     string     `json:"source_file"`
	RedirectedFrom string     `json:"redirected_from,omitempty"`
	RedirectedTo   string     `json:"redirected_to,omitempty"`
	ImagesCount    int        `json:"images_count,omitempty"`
	Images         []ImageRef `json:"images,omitempty"`
}

// ImageRef is the short image entry embedded in a Record.
type ImageRef struct {
	Filename string `json:"filename"`
	Caption  string `json:"caption"`
}

// NewRecord builds the data record for an article.
func NewRecord(a *wikitxt.Article) *Record {
	r := &Record{
		Title:         a.Title,
		OriginalQuery: a.Query,
		SourceURL:     a.SourceURL,
		Variant:       Variant,
		TextLength:    utf8.RuneCountInString(a.Text),
		Text:          a.Text,
		OutFile:       TextPath(a.Title),
		SourceFile:    a.SourceFile,
	}
	if a.RedirectedFrom != "" {
		r.RedirectedFrom = a.RedirectedFrom
		r.RedirectedTo = a.Title
	}
	if len(a.Images) > 0 {
		r.ImagesCount = len(a.Images)
		for _, img := range a.Images {
			r.Images = append(r.Images, ImageRef{Filename: img.Filename, Caption: img.Caption})
		}
	}
	return r
}

// FormatMarkdown formats an article's Markdown export with YAML frontmatter.
func FormatMarkdown(a *wikitxt.Article) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(a.SourceURL)
	b.WriteString("\ntitle: ")
	b.WriteString(a.Title)
	b.WriteString("\n---\n\n")
	b.WriteString(a.Markdown)
	return b.String()
}

// SaveArticle writes the article's text file, its Markdown file when
// present, its image records and its data record.
func (s *Store) SaveArticle(ctx context.Context, a *wikitxt.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(filepath.Join(s.dir, TextPath(a.Title)), []byte(a.Text)); err != nil {
		return fmt.Errorf("write text: %w", err)
	}

	if a.Markdown != "" {
		path := filepath.Join(s.dir, MarkdownDir, SafeFilename(a.Title)+".md")
		if err := writeFileAtomic(path, []byte(FormatMarkdown(a))); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
	}

	if len(a.Images) > 0 {
		lines := make([]any, len(a.Images))
		for i, img := range a.Images {
			lines[i] = img
		}
		if err := s.appendJSON(ImagesFile, lines...); err != nil {
			return fmt.Errorf("write image records: %w", err)
		}
	}

	rec := NewRecord(a)
	var err error
	if s.force {
		err = s.replaceRecord(rec)
	} else {
		err = s.appendJSON(DataFile, rec)
	}
	if err != nil {
		return fmt.Errorf("write data record: %w", err)
	}
	return nil
}

type failureRecord struct {
	Raw        string             `json:"raw"`
	Kind       wikitxt.TargetKind `json:"kind"`
	SourceFile string             `json:"source_file"`
	Error      string             `json:"error"`
}

// RecordFailure appends the target and its error to the failure log.
func (s *Store) RecordFailure(ctx context.Context, target wikitxt.Target, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendJSON(FailuresFile, failureRecord{
		Raw:        target.Raw,
		Kind:       target.Kind,
		SourceFile: target.SourceFile,
		Error:      err.Error(),
	})
}

// appendJSON appends one JSON line per value to a file below the store.
func (s *Store) appendJSON(rel string, values ...any) error {
	path := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for _, v := range values {
		if err := encodeLine(w, v); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// replaceRecord rewrites the data file without records titled rec.Title
// and appends rec. Lines that do not parse are kept.
func (s *Store) replaceRecord(rec *Record) error {
	path := filepath.Join(s.dir, DataFile)

	var buf bytes.Buffer
	f, err := os.Open(path)
	switch {
	case err == nil:
		err = keepOtherRecords(&buf, f, rec.Title)
		f.Close()
		if err != nil {
			return err
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	if err := encodeLine(&buf, rec); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

func keepOtherRecords(w io.Writer, r io.Reader, title string) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			var head struct {
				Title *string `json:"title"`
			}
			if json.Unmarshal(trimmed, &head) != nil || head.Title == nil || *head.Title != title {
				if _, werr := w.Write(append(trimmed, '\n')); werr != nil {
					return werr
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// encodeLine writes v as one JSON line without escaping HTML or CJK.
func encodeLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeFileAtomic writes data to a temporary file and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
