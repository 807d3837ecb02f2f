package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/pipeline"
)

// Run executes the file command.
func (c *FileCmd) Run(deps *Dependencies) error {
	extractor, ok := deps.Extractors[c.Extractor]
	if !ok {
		return distill.Errorf(distill.EINVALID, "unknown extractor %q", c.Extractor)
	}

	raw, err := os.ReadFile(c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: reading %s: %v\n", c.Path, err)
		return err
	}

	doc := pipeline.NewDocument(deps.Sanitizer, extractor, deps.Converter,
		pipeline.WithDocumentLogger(deps.Logger),
	)
	res, err := doc.Extract(deps.Ctx, string(raw), c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	printResult(deps, res, c.HTML)
	return nil
}
