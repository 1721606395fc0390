package http

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/wikitxt"
)

// Ensure ImageDownloader implements wikitxt.ImageDownloader at compile time.
var _ wikitxt.ImageDownloader = (*ImageDownloader)(nil)

// ImageDownloader saves images into a directory.
type ImageDownloader struct {
	client *Client
	dir    string
}

// NewImageDownloader creates a new ImageDownloader writing into dir.
func NewImageDownloader(client *Client, dir string) *ImageDownloader {
	return &ImageDownloader{client: client, dir: dir}
}

// Download fetches imageURL into dir/filename. Existing files are kept.
func (d *ImageDownloader) Download(ctx context.Context, imageURL, filename string) error {
	if filename == "" || filepath.Base(filename) != filename {
		return wikitxt.Errorf(wikitxt.EINVALID, "invalid image filename: %q", filename)
	}

	path := filepath.Join(d.dir, filename)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	body, err := d.client.get(ctx, imageURL)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return os.Rename(tmp, path)
}
