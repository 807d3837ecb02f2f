// Package goquery sanitizes static HTML with PuerkitoBio/goquery.
package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
	"golang.org/x/net/html"
)

// Ensure Sanitizer implements distill.Sanitizer at compile time.
var _ distill.Sanitizer = (*Sanitizer)(nil)

// Sanitizer removes hidden elements and comments from static HTML.
//
// Saved HTML has no computed styles or layout, so hidden elements are
// recognized from inline signals only: the hidden attribute,
// aria-hidden="true" and inline display, visibility or opacity
// declarations. Images, and elements containing one, are never removed.
type Sanitizer struct{}

// NewSanitizer creates a new Sanitizer.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize returns html with hidden elements and comment nodes removed.
func (s *Sanitizer) Sanitize(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", distill.Errorf(distill.EINVALID, "failed to parse HTML: %v", err)
	}

	// Collect first; removing while iterating would skip siblings.
	var hidden []*goquery.Selection
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		if sel.Is("img") || sel.Find("img").Length() > 0 {
			return
		}
		if isHidden(sel) {
			hidden = append(hidden, sel)
		}
	})
	for _, sel := range hidden {
		sel.Remove()
	}

	for _, n := range doc.Nodes {
		removeComments(n)
	}

	out, err := doc.Html()
	if err != nil {
		return "", distill.WrapError(distill.EINTERNAL, err, "failed to render HTML")
	}
	return out, nil
}

func isHidden(sel *goquery.Selection) bool {
	if _, ok := sel.Attr("hidden"); ok {
		return true
	}
	if v, ok := sel.Attr("aria-hidden"); ok && strings.EqualFold(strings.TrimSpace(v), "true") {
		return true
	}
	style, ok := sel.Attr("style")
	if !ok {
		return false
	}
	for _, decl := range strings.Split(style, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.ToLower(strings.TrimSpace(value))
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		switch name {
		case "display":
			if value == "none" {
				return true
			}
		case "visibility":
			if value == "hidden" {
				return true
			}
		case "opacity":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f == 0 {
				return true
			}
		}
	}
	return false
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}
