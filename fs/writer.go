// Package fs writes extraction results as files.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fwojciec/distill"
)

// Ensure Writer implements distill.ResultWriter at compile time.
var _ distill.ResultWriter = (*Writer)(nil)

// SafeTitle converts a page title to a file base name. Characters other than
// letters, digits, spaces and '-' are dropped, the result is trimmed and
// spaces become underscores. An empty result yields "untitled".
// Example: "Hello, World: Part 2" → Hello_World_Part_2
func SafeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	name := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if name == "" {
		return "untitled"
	}
	return name
}

// Paths returns the files a result is written to, relative to the writer's
// directory: <title>.md in raw mode, <title>_readable.md and
// <title>_readable.html in readable mode.
func Paths(res *distill.Result) []string {
	base := SafeTitle(res.Title)
	if res.Mode == distill.ModeReadable {
		return []string{base + "_readable.md", base + "_readable.html"}
	}
	return []string{base + ".md"}
}

// Writer writes results as markdown (and article HTML) files to a directory.
// Results with the same title overwrite each other.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteResult writes res to disk. Each file is replaced atomically.
func (w *Writer) WriteResult(ctx context.Context, res *distill.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return err
	}

	paths := Paths(res)
	contents := []string{res.Markdown}
	if res.Mode == distill.ModeReadable {
		contents = append(contents, res.ArticleHTML())
	}

	for i, rel := range paths {
		if err := writeFileAtomic(filepath.Join(w.baseDir, rel), contents[i]); err != nil {
			return err
		}
	}
	return nil
}

// writeFileAtomic writes to a temporary file in the target directory and
// renames it into place, so readers never observe a partial file.
func writeFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
