package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/wikitxt"
	"github.com/fwojciec/wikitxt/crawl"
	"github.com/fwojciec/wikitxt/fs"
	"github.com/fwojciec/wikitxt/goquery"
	"github.com/fwojciec/wikitxt/htmltomarkdown"
	wikihttp "github.com/fwojciec/wikitxt/http"
	wikislog "github.com/fwojciec/wikitxt/slog"
	"github.com/fwojciec/wikitxt/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite catalog, opened when a database path is configured.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ArticleService wikitxt.ArticleService
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("wikitxt"),
		kong.Description("Convert Chinese Wikipedia articles into linearized plain text."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLConfig),
		Vars(),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'wikitxt --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set WIKITXT_DB or --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()

		m.ArticleService = sqlite.NewArticleService(m.DB)
		deps.DB = m.DB
		deps.Articles = m.ArticleService
	}

	switch strings.Fields(kongCtx.Command())[0] {
	case "fetch":
		deps.Crawler = newCrawler(&cli.Fetch, deps)
	case "convert":
		deps.Linearizer = wikislog.NewLoggingLinearizer(goquery.NewLinearizer(), deps.Logger)
	}

	return kongCtx.Run(deps)
}

// newLogger returns a text logger on w. Verbose mode shows every call;
// otherwise only failures.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newCrawler wires the retrieval clients, the engine and the output store
// for the fetch command.
func newCrawler(c *FetchCmd, deps *Dependencies) *crawl.Crawler {
	client := wikihttp.NewClient(
		wikihttp.WithTimeout(c.Timeout),
		wikihttp.WithAPIURL(c.APIURL),
		wikihttp.WithRESTURL(c.RESTURL),
		wikihttp.WithVariant(c.Variant),
		wikihttp.WithUserAgent(c.UserAgent),
		wikihttp.WithLimiter(crawl.NewDomainLimiter(c.Rate)),
	)
	site := client.Site()
	store := fs.NewStore(c.OutDir, c.Force)

	p := &crawl.Processor{
		Fetcher:    wikislog.NewLoggingFetcher(wikihttp.NewFetcher(client), deps.Logger),
		Linearizer: wikislog.NewLoggingLinearizer(goquery.NewLinearizer(), deps.Logger),
		LangLinks:  wikislog.NewLoggingLangLinkService(wikihttp.NewLangLinkService(client), deps.Logger),
		Rules:      c.rules(),
		Site:       site,
		Images:     c.Images,
	}
	if c.Markdown {
		p.Converter = htmltomarkdown.NewConverter(htmltomarkdown.WithSite(site))
	}

	cr := &crawl.Crawler{
		Processor:   p,
		Store:       store,
		Articles:    deps.Articles,
		Concurrency: c.Concurrency,
		Force:       c.Force,
	}
	if c.Images {
		cr.Images = wikislog.NewLoggingImageDownloader(wikihttp.NewImageDownloader(client, store.ImagesDir()), deps.Logger)
	}
	return cr
}
