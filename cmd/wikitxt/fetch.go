package main

import (
	"fmt"

	"github.com/fwojciec/wikitxt"
	"github.com/fwojciec/wikitxt/crawl"
	"github.com/fwojciec/wikitxt/fs"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	if deps.Crawler == nil {
		return fmt.Errorf("crawler not configured")
	}

	targets, err := fs.ReadTargets(c.Targets)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikitxt.ErrorMessage(err))
		return err
	}

	result, err := deps.Crawler.Run(deps.Ctx, targets, func(e crawl.ProgressEvent) {
		printProgress(deps, e)
	})
	if result != nil {
		fmt.Fprintf(deps.Stdout, "ok: %d  skipped: %d  failed: %d  (%s)\n",
			result.OK, result.Skipped, result.Failed, crawl.FormatBytes(result.Bytes))
	}
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stderr, "failures logged to %s\n", fs.FailuresFile)
	}
	return nil
}

func printProgress(deps *Dependencies, e crawl.ProgressEvent) {
	title := crawl.TruncateTitle(e.Title, 40)
	switch e.Type {
	case crawl.ProgressStarted:
		fmt.Fprintf(deps.Stdout, "processing %d targets\n", e.Total)
	case crawl.ProgressCompleted:
		fmt.Fprintf(deps.Stdout, "[%d/%d] ok    %s\n", e.Completed, e.Total, title)
	case crawl.ProgressSkipped:
		fmt.Fprintf(deps.Stdout, "[%d/%d] skip  %s\n", e.Completed, e.Total, title)
	case crawl.ProgressFailed:
		fmt.Fprintf(deps.Stdout, "[%d/%d] fail  %s: %s\n", e.Completed, e.Total, title, wikitxt.ErrorMessage(e.Error))
	}
}
