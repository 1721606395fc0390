// Package fs provides file-based target lists and article output.
package fs

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/wikitxt"
)

// ReadTargets reads a target list: a .txt file with one URL or title per
// line, a .jsonl file of {"url"} or {"title"} objects, or a directory whose
// .txt and .jsonl files are read in that order.
// Returns ENOTFOUND if path does not exist.
func ReadTargets(path string) ([]wikitxt.Target, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, wikitxt.Errorf(wikitxt.ENOTFOUND, "target path not found: %s", path)
	} else if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return readTargetFile(path)
	}

	var files []string
	for _, pattern := range []string{"*.txt", "*.jsonl"} {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, wikitxt.Errorf(wikitxt.ENOTFOUND, "no .txt or .jsonl files in %s", path)
	}

	var targets []wikitxt.Target
	for _, file := range files {
		t, err := readTargetFile(file)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t...)
	}
	return targets, nil
}

func readTargetFile(path string) ([]wikitxt.Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return parseJSONLTargets(f, path)
	}
	return parseTextTargets(f, path)
}

// parseTextTargets reads one target per line. Blank lines and lines
// starting with # are ignored.
func parseTextTargets(r io.Reader, source string) ([]wikitxt.Target, error) {
	var targets []wikitxt.Target
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, newTarget(line, source))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return targets, nil
}

type jsonTarget struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// parseJSONLTargets reads one object per line. Lines that are not valid
// JSON or carry neither field are skipped.
func parseJSONLTargets(r io.Reader, source string) ([]wikitxt.Target, error) {
	var targets []wikitxt.Target
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var obj jsonTarget
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			continue
		}
		switch {
		case obj.URL != "":
			targets = append(targets, wikitxt.Target{Raw: obj.URL, Kind: wikitxt.TargetURL, SourceFile: source})
		case obj.Title != "":
			targets = append(targets, wikitxt.Target{Raw: obj.Title, Kind: wikitxt.TargetTitle, SourceFile: source})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return targets, nil
}

func newTarget(line, source string) wikitxt.Target {
	kind := wikitxt.TargetTitle
	if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
		kind = wikitxt.TargetURL
	}
	return wikitxt.Target{Raw: line, Kind: kind, SourceFile: source}
}
