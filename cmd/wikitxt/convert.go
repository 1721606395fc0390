package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/wikitxt"
	"github.com/fwojciec/wikitxt/goquery"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.File, err)
	}

	linearizer := deps.Linearizer
	if linearizer == nil {
		linearizer = goquery.NewLinearizer()
	}

	out, err := linearizer.Linearize(string(data), wikitxt.LinearizeOptions{
		Title: c.Title,
		Rules: rulesFor(c.ExcludeSections),
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikitxt.ErrorMessage(err))
		return err
	}
	if out.RedirectTarget != "" {
		fmt.Fprintf(deps.Stderr, "redirect page: %s\n", out.RedirectTarget)
	}

	text := strings.TrimSpace(wikitxt.Tidy(out.Text))
	if text == "" {
		err := wikitxt.Errorf(wikitxt.EEMPTY, "no text in %s", c.File)
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikitxt.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, text)
	return nil
}
