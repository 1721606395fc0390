// Package crawl provides batch article processing.
// It coordinates fetching, linearization, redirect handling and storage
// of encyclopedia articles.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/wikitxt"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// dedupFalsePositiveRate is the bloom filter rate for duplicate targets.
const dedupFalsePositiveRate = 0.0001

// Crawler processes a list of targets and persists the results.
type Crawler struct {
	Processor *Processor
	Store     wikitxt.ArticleStore

	// Articles is an optional catalog updated for every saved article.
	Articles wikitxt.ArticleService

	// Images downloads infobox images when set.
	Images wikitxt.ImageDownloader

	Concurrency int

	// Force reprocesses targets whose output already exists.
	Force bool
}

// Result holds the outcome of a batch.
type Result struct {
	OK      int
	Skipped int
	Failed  int
	Bytes   int
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Title     string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// outcome is the result of processing a single target.
type outcome struct {
	target  wikitxt.Target
	article *wikitxt.Article
	skipped bool
	err     error
}

// Run processes targets with bounded concurrency. Writes happen on the
// calling goroutine in completion order. Duplicate targets and targets
// with existing output are skipped unless Force is set.
func (c *Crawler) Run(ctx context.Context, targets []wikitxt.Target, progress ProgressFunc) (*Result, error) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	total := len(targets)
	notify := func(e ProgressEvent) {
		if progress != nil {
			e.Total = total
			progress(e)
		}
	}
	notify(ProgressEvent{Type: ProgressStarted})

	outcomes := make(chan outcome, concurrency)
	seen := NewTargetSet(uint(total), dedupFalsePositiveRate)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, target := range targets {
			if gctx.Err() != nil {
				break
			}
			if !seen.Add(target) || (!c.Force && c.Store.Exists(target.Title())) {
				outcomes <- outcome{target: target, skipped: true}
				continue
			}
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				article, err := c.Processor.Process(gctx, target)
				outcomes <- outcome{target: target, article: article, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	result := &Result{}
	var completed atomic.Int64
	for o := range outcomes {
		n := int(completed.Add(1))
		title := o.target.Title()

		switch {
		case o.skipped:
			result.Skipped++
			notify(ProgressEvent{Type: ProgressSkipped, Completed: n, Title: title})
			continue
		case o.err == nil && o.article.RedirectedFrom != "" && !c.Force && c.Store.Exists(o.article.Title):
			result.Skipped++
			notify(ProgressEvent{Type: ProgressSkipped, Completed: n, Title: o.article.Title})
			continue
		}

		err := o.err
		if err == nil {
			err = c.save(ctx, o.article)
		}
		if err != nil && ctx.Err() != nil && isCancellation(err) {
			// Interrupted work is not an article failure.
			continue
		}
		if err != nil {
			result.Failed++
			if ferr := c.Store.RecordFailure(ctx, o.target, err); ferr != nil {
				err = fmt.Errorf("%w (recording failure: %v)", err, ferr)
			}
			notify(ProgressEvent{Type: ProgressFailed, Completed: n, Title: title, Error: err})
			continue
		}

		result.OK++
		result.Bytes += len(o.article.Text)
		notify(ProgressEvent{Type: ProgressCompleted, Completed: n, Title: o.article.Title})
	}

	notify(ProgressEvent{Type: ProgressFinished, Completed: total})

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// save persists one article, its images and its catalog entry.
func (c *Crawler) save(ctx context.Context, article *wikitxt.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}
	if err := c.Store.SaveArticle(ctx, article); err != nil {
		return fmt.Errorf("save %s: %w", article.Title, err)
	}

	// Image downloads are best effort.
	if c.Images != nil {
		for _, img := range article.Images {
			_ = c.Images.Download(ctx, img.ImageURL, img.Filename)
		}
	}

	if c.Articles != nil {
		entry := &wikitxt.ArticleEntry{
			ID:             uuid.NewString(),
			Title:          article.Title,
			Query:          article.Query,
			SourceURL:      article.SourceURL,
			SourceFile:     article.SourceFile,
			RedirectedFrom: article.RedirectedFrom,
			ContentHash:    ComputeHash(article.Text),
			TextLength:     utf8.RuneCountInString(article.Text),
			ImageCount:     len(article.Images),
			FetchedAt:      time.Now().UTC(),
		}
		if err := c.Articles.UpsertArticle(ctx, entry); err != nil {
			return fmt.Errorf("catalog %s: %w", article.Title, err)
		}
	}
	return nil
}
