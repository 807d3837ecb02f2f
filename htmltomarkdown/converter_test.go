package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements distill.Converter at compile time.
var _ distill.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts full page document", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Example</h1><p>Hi</p></body></html>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Equal(t, "# Example\n\nHi", md)
	})

	t.Run("converts article fragment", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Hi</p>`, "")

		require.NoError(t, err)
		assert.Equal(t, "Hi", md)
	})

	t.Run("empty input converts to empty string", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert("", "")

		require.NoError(t, err)
		assert.Empty(t, md)
	})

	t.Run("whitespace input converts to empty string", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert("  \n\t ", "")

		require.NoError(t, err)
		assert.Empty(t, md)
	})

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		html := `<h1>Title</h1><h2>Subtitle</h2><h3>Section</h3>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "## Subtitle")
		assert.Contains(t, md, "### Section")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		html := `<p>Visit <a href="https://example.com">Example</a> for more info.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "[Example](https://example.com)")
	})

	t.Run("resolves relative links against page URL", func(t *testing.T) {
		t.Parallel()

		html := `<p>Read the <a href="/docs/intro">intro</a> and <a href="next">next</a>.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "https://example.com/blog/post")

		require.NoError(t, err)
		assert.Contains(t, md, "[intro](https://example.com/docs/intro)")
		assert.Contains(t, md, "[next](https://example.com/blog/next)")
	})

	t.Run("resolves relative images against page URL", func(t *testing.T) {
		t.Parallel()

		html := `<p><img src="/img/cat.png" alt="A cat"></p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "https://example.com/blog/post")

		require.NoError(t, err)
		assert.Contains(t, md, "![A cat](https://example.com/img/cat.png)")
	})

	t.Run("leaves relative links alone without page URL", func(t *testing.T) {
		t.Parallel()

		html := `<p>Read the <a href="/docs/intro">intro</a>.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "[intro](/docs/intro)")
	})

	t.Run("converts images", func(t *testing.T) {
		t.Parallel()

		html := `<p><img src="https://example.com/cat.png" alt="A cat"></p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "![A cat](https://example.com/cat.png)")
	})

	t.Run("converts unordered lists", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li>First</li><li>Second</li><li>Third</li></ul>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "- Second")
		assert.Contains(t, md, "- Third")
	})

	t.Run("converts code blocks with language hint", func(t *testing.T) {
		t.Parallel()

		html := `<pre><code class="language-go">package main
</code></pre>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "```go")
		assert.Contains(t, md, "package main")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Name</th><th>Age</th></tr></thead>
<tbody><tr><td>Alice</td><td>30</td></tr></tbody>
</table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "Name")
		assert.Contains(t, md, "Alice")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("drops script and style content", func(t *testing.T) {
		t.Parallel()

		html := `<div><script>var tracking = 1;</script><style>p { color: red; }</style><p>Visible text</p></div>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "Visible text")
		assert.NotContains(t, md, "tracking")
		assert.NotContains(t, md, "color: red")
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		html := `<article><h2>Heading</h2><p>Body <strong>bold</strong> and <em>italic</em>.</p><blockquote><p>Quote</p></blockquote></article>`

		conv := htmltomarkdown.NewConverter()
		first, err := conv.Convert(html, "")
		require.NoError(t, err)
		second, err := conv.Convert(html, "")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Contains(t, first, "## Heading")
		assert.Contains(t, first, "**bold**")
		assert.Contains(t, first, "> Quote")
	})
}
