package distill

import (
	"encoding/json"
	"fmt"
)

// Envelope is the structured result produced by the in-page extraction
// script. Content is empty only when Error is set or the page has no
// extractable article.
type Envelope struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	TextContent string `json:"textContent"`
	Excerpt     string `json:"excerpt"`
	Error       string `json:"error,omitempty"`
}

// Empty reports whether the envelope carries no article content.
func (e Envelope) Empty() bool {
	return e.Content == ""
}

// DecodeEnvelope recovers an Envelope from the value returned by an in-page
// evaluation. The script serializes the envelope as a JSON string; any other
// shape yields an empty envelope with a diagnostic in Error. It never fails.
func DecodeEnvelope(v any) Envelope {
	s, ok := v.(string)
	if !ok {
		if v == nil {
			return Envelope{Error: "extraction script returned no value"}
		}
		return Envelope{Error: fmt.Sprintf("extraction script returned %T, want string", v)}
	}

	var env Envelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return Envelope{Error: fmt.Sprintf("malformed extraction result: %v", err)}
	}
	return env
}

// Extractor produces an Envelope from static HTML without a rendering
// engine. Extraction failures are reported through Envelope.Error; the
// returned error is reserved for invalid input.
type Extractor interface {
	Extract(html string, pageURL string) (Envelope, error)
}
