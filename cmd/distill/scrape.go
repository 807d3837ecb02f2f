package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/distill"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	mode := distill.ModeRaw
	if c.Readable || c.HTML {
		mode = distill.ModeReadable
	}

	res, err := deps.Pipeline.Extract(deps.Ctx, distill.Request{URL: c.URL, Mode: mode})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	writeCtx := context.WithoutCancel(deps.Ctx)
	for _, w := range deps.Writers {
		if err := w.WriteResult(writeCtx, res); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: saving result: %v\n", err)
		}
	}

	printResult(deps, res, c.HTML)
	return nil
}

// printResult writes warnings to stderr and the body to stdout.
func printResult(deps *Dependencies, res *distill.Result, html bool) {
	for _, w := range res.Warnings {
		fmt.Fprintf(deps.Stderr, "warning: %s: %s\n", w.Stage, w.Message)
	}
	if res.Title != "" {
		fmt.Fprintf(deps.Stderr, "title: %s\n", res.Title)
	}
	if html {
		fmt.Fprintln(deps.Stdout, res.ArticleHTML())
		return
	}
	fmt.Fprintln(deps.Stdout, res.Markdown)
}
