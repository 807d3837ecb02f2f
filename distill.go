// Package distill extracts readable article content from web pages by
// driving a real browser, and converts the result to Markdown.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, htmltomarkdown/, sqlite/).
package distill
