package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/fs"
	"github.com/fwojciec/distill/goquery"
	"github.com/fwojciec/distill/htmltomarkdown"
	"github.com/fwojciec/distill/pipeline"
	"github.com/fwojciec/distill/readability"
	"github.com/fwojciec/distill/rod"
	dslog "github.com/fwojciec/distill/slog"
	"github.com/fwojciec/distill/sqlite"
	"github.com/fwojciec/distill/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used for history. Opened when --db is set.
	DB *sqlite.DB

	// Browser owned by the program. Launched for serve and scrape.
	Provider *rod.Provider

	// Services for end-to-end testing. When set, Run uses them instead of
	// launching a browser or opening a database.
	Pipeline distill.Pipeline
	Records  distill.RecordService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.Provider != nil {
		err = m.Provider.Close()
	}
	if m.DB != nil {
		if dbErr := m.DB.Close(); err == nil {
			err = dbErr
		}
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("distill"),
		kong.Description("Extract readable article content from web pages as Markdown"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'distill --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger, err := newLogger(cli.LogLevel, cli.LogFormat, stderr)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}
	defer m.Close()

	switch cmd {
	case "serve", "scrape":
		if err := m.openHistory(cli.DB, stderr); err != nil {
			return err
		}
		if err := m.openPipeline(cli.Browser, logger, stderr); err != nil {
			return err
		}
		deps.Pipeline = m.Pipeline
		deps.Records = m.Records
		if m.Provider != nil {
			deps.Engine = m.Provider
		}
		if cli.OutputDir != "" {
			deps.Writers = append(deps.Writers, dslog.NewLoggingWriter(fs.NewWriter(cli.OutputDir), "fs", logger))
		}
		if w, ok := m.Records.(distill.ResultWriter); ok {
			deps.Writers = append(deps.Writers, dslog.NewLoggingWriter(w, "sqlite", logger))
		}

	case "file":
		deps.Sanitizer = goquery.NewSanitizer()
		deps.Converter = htmltomarkdown.NewConverter()
		deps.Extractors = map[string]distill.Extractor{
			"readability": readability.NewExtractor(),
			"trafilatura": trafilatura.NewExtractor(),
		}

	case "history", "show":
		if cli.DB == "" && m.Records == nil {
			fmt.Fprintln(stderr, "Hint: Set DISTILL_DB or --db to the history database")
			return distill.Errorf(distill.EINVALID, "history is disabled")
		}
		if err := m.openHistory(cli.DB, stderr); err != nil {
			return err
		}
		deps.Records = m.Records
	}

	return kongCtx.Run(deps)
}

// openHistory opens the history database unless one is already set.
func (m *Main) openHistory(path string, stderr io.Writer) error {
	if m.Records != nil || path == "" {
		return nil
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DISTILL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.Records = sqlite.NewRecordService(m.DB)
	return nil
}

// openPipeline launches the browser and builds the pipeline unless one is
// already set.
func (m *Main) openPipeline(flags BrowserFlags, logger *slog.Logger, stderr io.Writer) error {
	if m.Pipeline != nil {
		return nil
	}

	provider, err := rod.NewProvider(
		rod.WithHeadless(flags.Headless),
		rod.WithBrowserBin(flags.BrowserBin),
		rod.WithNoSandbox(flags.NoSandbox),
		rod.WithIdleTimeout(flags.IdleTimeout),
		rod.WithMaxSessions(flags.MaxSessions),
		rod.WithRecycleAfter(flags.RecycleAfter),
	)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	m.Provider = provider

	p := pipeline.New(
		dslog.NewLoggingProvider(provider, logger),
		readability.NewExtractor(),
		htmltomarkdown.NewConverter(),
		pipeline.WithDelays(pipeline.Delays{
			RawSettle:      flags.RawSettle,
			ReadableSettle: flags.ReadableSettle,
			ScrollSettle:   flags.ScrollSettle,
		}),
		pipeline.WithTimeouts(pipeline.Timeouts{
			Navigate: flags.NavTimeout,
			Evaluate: flags.EvalTimeout,
		}),
		pipeline.WithRequireContent(flags.RequireContent),
		pipeline.WithLogger(logger),
	)
	m.Pipeline = dslog.NewLoggingPipeline(p, logger)
	return nil
}

// newLogger builds a text or JSON slog logger writing to w.
func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
