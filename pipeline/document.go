package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/distill"
)

// Document runs the readable stages over saved HTML without a rendering
// engine: sanitize, extract, convert.
type Document struct {
	sanitizer distill.Sanitizer
	extractor distill.Extractor
	converter distill.Converter

	logger         *slog.Logger
	requireContent bool
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithDocumentLogger sets the logger used to report degraded stages.
func WithDocumentLogger(logger *slog.Logger) DocumentOption {
	return func(d *Document) {
		d.logger = logger
	}
}

// WithDocumentRequireContent makes an empty extraction fail with EEMPTY.
func WithDocumentRequireContent(require bool) DocumentOption {
	return func(d *Document) {
		d.requireContent = require
	}
}

// NewDocument creates a Document. sanitizer may be nil to skip sanitizing.
func NewDocument(sanitizer distill.Sanitizer, extractor distill.Extractor, converter distill.Converter, opts ...DocumentOption) *Document {
	d := &Document{
		sanitizer: sanitizer,
		extractor: extractor,
		converter: converter,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Extract produces a readable-mode Result from html. pageURL resolves
// relative links and is recorded on the result.
func (d *Document) Extract(ctx context.Context, html, pageURL string) (*distill.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(StageExtract, distill.EINTERNAL, err)
	}

	res := &distill.Result{URL: pageURL, Mode: distill.ModeReadable}

	if d.sanitizer != nil {
		clean, err := d.sanitizer.Sanitize(html)
		if err != nil {
			res.Warnings = append(res.Warnings, distill.Warning{Stage: StageExtract, Message: "sanitize failed: " + err.Error()})
			d.logger.Warn("sanitize failed", "url", pageURL, "err", err)
		} else {
			html = clean
		}
	}

	env, err := d.extractor.Extract(html, pageURL)
	if err != nil {
		return nil, classify(StageExtract, distill.EEVALUATION, err)
	}
	if env.Error != "" {
		res.Warnings = append(res.Warnings, distill.Warning{Stage: StageExtract, Message: env.Error})
		d.logger.Warn("extraction degraded", "url", pageURL, "error", env.Error)
	}
	if d.requireContent && env.Empty() {
		return nil, distill.Errorf(distill.EEMPTY, "no article found in document")
	}

	md, err := d.converter.Convert(env.Content, pageURL)
	if err != nil {
		return nil, classify(StageConvert, distill.EINTERNAL, err)
	}

	res.Title = env.Title
	res.HTML = &env.Content
	res.Markdown = md
	return res, nil
}
