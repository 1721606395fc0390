package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/wikitxt"
	"github.com/fwojciec/wikitxt/crawl"
	wikihttp "github.com/fwojciec/wikitxt/http"
	"github.com/fwojciec/wikitxt/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	DB         *sqlite.DB
	Articles   wikitxt.ArticleService
	Crawler    *crawl.Crawler
	Linearizer wikitxt.Linearizer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"YAML configuration file. Flags override its values."`
	Verbose bool            `short:"v" help:"Log every request"`
	DB      string          `name:"db" env:"WIKITXT_DB" help:"SQLite catalog of saved articles"`

	Fetch   FetchCmd   `cmd:"" help:"Fetch and convert the articles of a target list"`
	Convert ConvertCmd `cmd:"" help:"Convert a saved HTML file to text"`
	List    ListCmd    `cmd:"" help:"List articles in the catalog"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	Targets         string        `required:"" help:"Target list: a .txt or .jsonl file, or a directory of them"`
	OutDir          string        `default:"out" help:"Output directory"`
	Force           bool          `short:"f" help:"Reprocess articles whose output exists"`
	ExcludeSections []string      `sep:"," help:"Section keywords to drop (comma separated)"`
	UserAgent       string        `name:"ua" default:"${user_agent}" help:"User-Agent with contact information"`
	APIURL          string        `name:"api-url" default:"${api_url}" help:"MediaWiki Action API endpoint"`
	RESTURL         string        `name:"rest-url" default:"${rest_url}" help:"MediaWiki REST page/html endpoint"`
	Variant         string        `default:"${variant}" help:"Language variant"`
	Rate            float64       `default:"2" help:"Requests per second per host (0 disables)"`
	Concurrency     int           `short:"c" default:"1" help:"Articles processed concurrently"`
	Timeout         time.Duration `default:"30s" help:"Timeout of a single request"`
	Images          bool          `help:"Collect and download infobox images"`
	Markdown        bool          `help:"Also export Markdown"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	File            string   `arg:"" type:"existingfile" help:"Saved article HTML"`
	Title           string   `help:"Article title used in image records"`
	ExcludeSections []string `sep:"," help:"Section keywords to drop (comma separated)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	SourceFile string `help:"Only articles from this target list"`
	Limit      int    `short:"n" help:"Maximum number of articles"`
}

// Vars returns the interpolation variables for flag defaults.
func Vars() kong.Vars {
	return kong.Vars{
		"user_agent": wikihttp.DefaultUserAgent,
		"api_url":    wikihttp.DefaultAPIURL,
		"rest_url":   wikihttp.DefaultRESTURL,
		"variant":    wikihttp.DefaultVariant,
	}
}

// rulesFor returns Rules for the given keywords, or the defaults when empty.
func rulesFor(excluded []string) *wikitxt.Rules {
	if len(excluded) == 0 {
		return wikitxt.DefaultRules()
	}
	return wikitxt.NewRules(excluded)
}

func (c *FetchCmd) rules() *wikitxt.Rules {
	return rulesFor(c.ExcludeSections)
}
