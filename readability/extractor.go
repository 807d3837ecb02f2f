// Package readability implements distill.Extractor on go-shiori/go-readability.
// It scores the sanitized document captured from a browser page as well as
// static HTML that needs no rendering engine.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*Extractor)(nil)

// Parser limits: no element cap, five top candidates and a 500 character
// floor before the scorer retries with relaxed flags.
const (
	maxElemsToParse = 0
	nTopCandidates  = 5
	charThreshold   = 500
)

// Extractor wraps go-readability to extract the main article from HTML.
// Headings are kept, with h1 demoted to h2, and relative links resolve
// against the page URL.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract finds the article in rawHTML. pageURL, when set, resolves relative
// links in the article. A page without an article yields an envelope carrying
// the diagnostic in Error.
func (e *Extractor) Extract(rawHTML string, pageURL string) (distill.Envelope, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return distill.Envelope{}, distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil {
			return distill.Envelope{}, distill.Errorf(distill.EINVALID, "invalid page URL %q", pageURL)
		}
		base = u
	}

	// Parser carries per-document state, so each call gets its own.
	parser := readability.NewParser()
	parser.MaxElemsToParse = maxElemsToParse
	parser.NTopCandidates = nTopCandidates
	parser.CharThresholds = charThreshold

	article, err := parser.Parse(strings.NewReader(rawHTML), base)
	if err != nil {
		return distill.Envelope{Error: err.Error()}, nil
	}

	env := distill.Envelope{
		Title:       article.Title,
		Content:     article.Content,
		TextContent: article.TextContent,
		Excerpt:     article.Excerpt,
	}
	if env.Content == "" {
		env.Error = "readability found no article"
	}
	return env, nil
}
