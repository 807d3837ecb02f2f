package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Pipeline distill.Pipeline
	Writers  []distill.ResultWriter
	Records  distill.RecordService

	// Engine backs the health check and the restart endpoint.
	Engine distill.Engine

	// Offline extraction.
	Sanitizer  distill.Sanitizer
	Extractors map[string]distill.Extractor
	Converter  distill.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel  string `default:"info" enum:"debug,info,warn,error" env:"DISTILL_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	LogFormat string `default:"text" enum:"text,json" env:"DISTILL_LOG_FORMAT" help:"Log format (text, json)"`
	OutputDir string `default:"outputs" env:"DISTILL_OUTPUT_DIR" help:"Directory for result files (empty disables)"`
	DB        string `name:"db" env:"DISTILL_DB" help:"SQLite history database path (empty disables history)"`

	Browser BrowserFlags `embed:"" prefix:""`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP server"`
	Scrape  ScrapeCmd  `cmd:"" help:"Extract a single URL and print the result"`
	File    FileCmd    `cmd:"" help:"Extract the article from a saved HTML file"`
	History HistoryCmd `cmd:"" help:"List recent extractions"`
	Show    ShowCmd    `cmd:"" help:"Print a stored extraction"`
}

// BrowserFlags configure the browser and pipeline stages.
type BrowserFlags struct {
	Headless       bool          `default:"true" negatable:"" env:"DISTILL_HEADLESS" help:"Run the browser headless"`
	BrowserBin     string        `env:"DISTILL_BROWSER_BIN" help:"Chrome binary (default: detect or download)"`
	NoSandbox      bool          `env:"DISTILL_NO_SANDBOX" help:"Disable the Chrome sandbox"`
	IdleTimeout    time.Duration `default:"5m" env:"DISTILL_IDLE_TIMEOUT" help:"Tear the browser down after this long without sessions (0 disables)"`
	MaxSessions    int64         `default:"4" env:"DISTILL_MAX_SESSIONS" help:"Concurrent page sessions (0 is unbounded)"`
	RecycleAfter   int64         `default:"75" env:"DISTILL_RECYCLE_AFTER" help:"Relaunch the browser after this many sessions (0 disables)"`
	NavTimeout     time.Duration `default:"30s" env:"DISTILL_NAV_TIMEOUT" help:"Navigation timeout"`
	EvalTimeout    time.Duration `default:"15s" env:"DISTILL_EVAL_TIMEOUT" help:"Script evaluation timeout"`
	RawSettle      time.Duration `default:"1s" env:"DISTILL_RAW_SETTLE" help:"Settle delay after load in raw mode"`
	ReadableSettle time.Duration `default:"1.5s" env:"DISTILL_READABLE_SETTLE" help:"Settle delay after load in readable mode"`
	ScrollSettle   time.Duration `default:"500ms" env:"DISTILL_SCROLL_SETTLE" help:"Settle delay after scrolling"`
	RequireContent bool          `env:"DISTILL_REQUIRE_CONTENT" help:"Fail readable extractions that find no article"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr  string  `default:":3000" env:"DISTILL_ADDR" help:"Listen address"`
	Rate  float64 `default:"5" env:"DISTILL_RATE" help:"Requests per second per client (0 disables)"`
	Burst int     `default:"10" env:"DISTILL_BURST" help:"Burst size per client"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL      string `arg:"" help:"Page URL"`
	Readable bool   `short:"r" help:"Extract the main article"`
	HTML     bool   `name:"html" help:"Print article HTML instead of Markdown (implies --readable)"`
}

// FileCmd is the "file" subcommand.
type FileCmd struct {
	Path      string `arg:"" type:"existingfile" help:"Saved HTML file"`
	Extractor string `short:"e" default:"readability" enum:"readability,trafilatura" help:"Article extractor (readability, trafilatura)"`
	URL       string `name:"url" help:"Page URL used to resolve relative links"`
	HTML      bool   `name:"html" help:"Print article HTML instead of Markdown"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL    string `name:"url" help:"Only show extractions of this URL"`
	Mode   string `help:"Only show extractions in this mode (raw, readable)"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of records"`
	Offset int    `default:"0" help:"Records to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Record ID"`
	HTML bool   `name:"html" help:"Print article HTML instead of Markdown"`
}
