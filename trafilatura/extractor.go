// Package trafilatura implements distill.Extractor on markusmobius/go-trafilatura.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content as an envelope.
func (e *Extractor) Extract(rawHTML string, pageURL string) (distill.Envelope, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return distill.Envelope{}, distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil {
			return distill.Envelope{}, distill.Errorf(distill.EINVALID, "invalid page URL %q", pageURL)
		}
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return distill.Envelope{Error: err.Error()}, nil
	}

	env := distill.Envelope{
		Title:       result.Metadata.Title,
		TextContent: result.ContentText,
		Excerpt:     result.Metadata.Description,
	}
	if result.ContentNode != nil {
		content, err := renderNode(result.ContentNode)
		if err != nil {
			env.Error = err.Error()
			return env, nil
		}
		env.Content = content
	}
	if env.Content == "" {
		env.Error = "trafilatura found no content"
	}
	return env, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
