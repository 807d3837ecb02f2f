package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/distill"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := distill.RecordFilter{Limit: c.Limit, Offset: c.Offset}
	if c.URL != "" {
		filter.URL = &c.URL
	}
	if c.Mode != "" {
		mode, err := distill.ParseMode(c.Mode)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
			return err
		}
		filter.Mode = &mode
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No extractions found. Use 'distill scrape' or 'distill serve' to create some.")
		return nil
	}

	for _, r := range records {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %-8s  %s  %s\n", r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Mode, title, r.URL)
	}
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	rec, err := deps.Records.FindRecordByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stderr, "%s (%s, %s)\n", rec.URL, rec.Mode, rec.CreatedAt.Local().Format(time.DateTime))
	if c.HTML {
		fmt.Fprintln(deps.Stdout, rec.HTML)
		return nil
	}
	fmt.Fprintln(deps.Stdout, rec.Markdown)
	return nil
}
