package fs_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/wikitxt"
	"github.com/fwojciec/wikitxt/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		out = append(out, m)
	}
	require.NoError(t, scanner.Err())
	return out
}

func testArticle(title, text string) *wikitxt.Article {
	return &wikitxt.Article{
		Title:      title,
		Query:      title,
		SourceURL:  wikitxt.ArticleURL("https://zh.wikipedia.org", title),
		SourceFile: "targets.txt",
		Text:       text,
	}
}

func TestSafeFilename(t *testing.T) {
	t.Parallel()

	t.Run("replaces reserved characters", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "AC_DC_ a_b_c_d_e_f_g", fs.SafeFilename(`AC/DC\ a*b?c:d"e<f>g`))
	})

	t.Run("keeps plain titles", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "蔡依林", fs.SafeFilename("蔡依林"))
	})

	t.Run("caps length on a character boundary", func(t *testing.T) {
		t.Parallel()

		name := fs.SafeFilename(strings.Repeat("蔡", 100))

		assert.Len(t, name, 198)
		assert.True(t, strings.HasPrefix(strings.Repeat("蔡", 100), name))
	})
}

func TestStore_SaveArticle(t *testing.T) {
	t.Parallel()

	t.Run("writes text and data record", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore(dir, false)
		article := testArticle("蔡依林", "歌手。")
		article.Query = "Jolin"
		article.RedirectedFrom = "Jolin"

		require.NoError(t, store.SaveArticle(context.Background(), article))

		data, err := os.ReadFile(filepath.Join(dir, "txt", "蔡依林.txt"))
		require.NoError(t, err)
		assert.Equal(t, "歌手。", string(data))
		assert.True(t, store.Exists("蔡依林"))
		assert.False(t, store.Exists("Jolin"))

		records := readLines(t, filepath.Join(dir, fs.DataFile))
		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, "蔡依林", rec["title"])
		assert.Equal(t, "Jolin", rec["original_query"])
		assert.Equal(t, "zh-tw", rec["variant"])
		assert.Equal(t, float64(3), rec["text_length"])
		assert.Equal(t, filepath.Join("txt", "蔡依林.txt"), rec["out_file"])
		assert.Equal(t, "targets.txt", rec["source_file"])
		assert.Equal(t, "Jolin", rec["redirected_from"])
		assert.Equal(t, "蔡依林", rec["redirected_to"])
		assert.NotContains(t, rec, "images")
	})

	t.Run("writes image records and markdown", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore(dir, false)
		article := testArticle("臺北市", "首都。")
		article.Markdown = "首都。\n"
		article.Images = []wikitxt.ImageRecord{{
			Title:     "臺北市",
			ImageURL:  "https://upload.wikimedia.org/a.jpg",
			SourceURL: article.SourceURL,
			Filename:  "0123456789ab.jpg",
			Caption:   "臺北101",
		}}

		require.NoError(t, store.SaveArticle(context.Background(), article))

		images := readLines(t, filepath.Join(dir, fs.ImagesFile))
		require.Len(t, images, 1)
		assert.Equal(t, "https://upload.wikimedia.org/a.jpg", images[0]["image_url"])
		assert.Equal(t, "0123456789ab.jpg", images[0]["image_filename"])

		records := readLines(t, filepath.Join(dir, fs.DataFile))
		require.Len(t, records, 1)
		assert.Equal(t, float64(1), records[0]["images_count"])
		assert.Equal(t, []any{map[string]any{"filename": "0123456789ab.jpg", "caption": "臺北101"}}, records[0]["images"])

		md, err := os.ReadFile(filepath.Join(dir, "md", "臺北市.md"))
		require.NoError(t, err)
		assert.Equal(t, "---\nsource: "+article.SourceURL+"\ntitle: 臺北市\n---\n\n首都。\n", string(md))
	})

	t.Run("appends records without force", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore(dir, false)

		require.NoError(t, store.SaveArticle(context.Background(), testArticle("A", "一。")))
		require.NoError(t, store.SaveArticle(context.Background(), testArticle("A", "二。")))

		assert.Len(t, readLines(t, filepath.Join(dir, fs.DataFile)), 2)
	})

	t.Run("replaces records of the same title with force", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, fs.NewStore(dir, false).SaveArticle(context.Background(), testArticle("A", "一。")))
		require.NoError(t, fs.NewStore(dir, false).SaveArticle(context.Background(), testArticle("B", "乙。")))

		store := fs.NewStore(dir, true)
		require.NoError(t, store.SaveArticle(context.Background(), testArticle("A", "二。")))

		records := readLines(t, filepath.Join(dir, fs.DataFile))
		require.Len(t, records, 2)
		assert.Equal(t, "B", records[0]["title"])
		assert.Equal(t, "A", records[1]["title"])
		assert.Equal(t, "二。", records[1]["text"])

		data, err := os.ReadFile(filepath.Join(dir, "txt", "A.txt"))
		require.NoError(t, err)
		assert.Equal(t, "二。", string(data))
	})

	t.Run("does not escape markup characters", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore(dir, false)

		require.NoError(t, store.SaveArticle(context.Background(), testArticle("A&B", "<a> & 蔡。")))

		raw, err := os.ReadFile(filepath.Join(dir, fs.DataFile))
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"text":"<a> & 蔡。"`)
	})

	t.Run("rejects empty articles", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir(), false)

		err := store.SaveArticle(context.Background(), testArticle("A", " \n"))

		assert.Equal(t, wikitxt.EEMPTY, wikitxt.ErrorCode(err))
	})
}

func TestStore_RecordFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fs.NewStore(dir, false)
	target := wikitxt.Target{Raw: "不存在", Kind: wikitxt.TargetTitle, SourceFile: "targets.txt"}

	require.NoError(t, store.RecordFailure(context.Background(), target, errors.New("not found")))
	require.NoError(t, store.RecordFailure(context.Background(), target, errors.New("again")))

	lines := readLines(t, filepath.Join(dir, fs.FailuresFile))
	require.Len(t, lines, 2)
	assert.Equal(t, map[string]any{
		"raw":         "不存在",
		"kind":        "title",
		"source_file": "targets.txt",
		"error":       "not found",
	}, lines[0])
}
