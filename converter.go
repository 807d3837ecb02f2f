package distill

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown. Relative link and image
	// URLs resolve against pageURL when it is set. Blank input yields an empty
	// string. Implementations are deterministic and side-effect free.
	Convert(html, pageURL string) (string, error)
}

// Sanitizer strips hidden and comment nodes from static HTML before
// extraction. Images, and elements that contain one, are kept.
type Sanitizer interface {
	Sanitize(html string) (string, error)
}
