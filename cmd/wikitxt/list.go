package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/wikitxt"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	if deps.Articles == nil {
		return fmt.Errorf("no catalog configured: set --db or WIKITXT_DB")
	}

	filter := wikitxt.ArticleFilter{Limit: c.Limit}
	if c.SourceFile != "" {
		filter.SourceFile = &c.SourceFile
	}

	entries, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikitxt.ErrorMessage(err))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'wikitxt fetch' to add some.")
		return nil
	}

	for _, e := range entries {
		title := e.Title
		if e.RedirectedFrom != "" {
			title += " (from " + e.RedirectedFrom + ")"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %d chars  %s\n",
			e.FetchedAt.Local().Format(time.DateTime), title, e.TextLength, e.SourceURL)
	}
	return nil
}
