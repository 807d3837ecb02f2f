package distill

import (
	"context"
	"net/url"
)

// Mode selects which stages run for a request.
type Mode string

// Mode constants.
const (
	// ModeRaw converts the whole rendered page to Markdown.
	ModeRaw Mode = "raw"

	// ModeReadable settles lazy content, extracts the article and converts
	// only the extracted fragment.
	ModeReadable Mode = "readable"
)

// ParseMode converts a string to a Mode. An empty string yields ModeRaw.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeRaw:
		return ModeRaw, nil
	case ModeReadable:
		return ModeReadable, nil
	default:
		return "", Errorf(EINVALID, "unknown mode %q", s)
	}
}

// Request describes a single extraction. It is not modified by the pipeline.
type Request struct {
	URL  string `json:"url"`
	Mode Mode   `json:"mode"`
}

// Validate returns an error if the request contains invalid fields.
func (r Request) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "url required")
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return Errorf(EINVALID, "invalid url %q", r.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "url %q has no host", r.URL)
	}
	if r.Mode != ModeRaw && r.Mode != ModeReadable {
		return Errorf(EINVALID, "unknown mode %q", r.Mode)
	}
	return nil
}

// Warning records a best-effort stage that degraded instead of failing.
type Warning struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Result is the value returned to callers of a Pipeline.
type Result struct {
	URL      string `json:"url"`
	Mode     Mode   `json:"mode"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`

	// HTML is the extracted article HTML. It is nil in raw mode and
	// non-nil, possibly empty, in readable mode.
	HTML *string `json:"html,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// ArticleHTML returns the extracted article HTML, or "" in raw mode.
func (r *Result) ArticleHTML() string {
	if r.HTML == nil {
		return ""
	}
	return *r.HTML
}

// Pipeline turns a Request into a Result by driving a rendering engine.
type Pipeline interface {
	// Extract runs every stage for the request's mode. The context bounds
	// the whole request; cancelling it closes the page session promptly.
	Extract(ctx context.Context, req Request) (*Result, error)
}

// ResultWriter persists successful results.
type ResultWriter interface {
	WriteResult(ctx context.Context, res *Result) error
}
