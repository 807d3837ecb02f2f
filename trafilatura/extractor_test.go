package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*trafilatura.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Getting Started - My Site</title>
<meta property="og:title" content="Getting Started Guide">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>Getting Started</h1>
<p>This is the main content of the documentation page.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		env, err := ext.Extract(html, "https://example.com/page")

		require.NoError(t, err)
		assert.NotEmpty(t, env.Title)
	})

	t.Run("extracts main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home</a><a href="/docs">Docs</a></nav>
<article>
<h1>Documentation</h1>
<p>This is important documentation content that should be extracted.</p>
<pre><code>func main() { fmt.Println("Hello") }</code></pre>
</article>
<aside>Sidebar content</aside>
<footer>Copyright 2024</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		env, err := ext.Extract(html, "https://example.com/page")

		require.NoError(t, err)
		assert.Contains(t, env.Content, "important documentation content")
		assert.Contains(t, env.Content, "func main()")
	})

	t.Run("removes navigation boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/about">About</a></li>
<li><a href="/docs">Documentation</a></li>
</ul>
</nav>
<main>
<h1>Main Content</h1>
<p>This paragraph contains the actual content we want.</p>
</main>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		env, err := ext.Extract(html, "https://example.com/page")

		require.NoError(t, err)
		assert.Contains(t, env.Content, "actual content we want")
		assert.NotContains(t, env.Content, "main-nav")
	})

	t.Run("removes footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<h1>Article Title</h1>
<p>Article body with substantive content for readers.</p>
</article>
<footer>
<p>Copyright 2024 Example Corp</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		env, err := ext.Extract(html, "https://example.com/page")

		require.NoError(t, err)
		assert.Contains(t, env.Content, "substantive content")
		assert.NotContains(t, env.Content, "Copyright 2024 Example Corp")
	})

	t.Run("handles blog post layout", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Why We Moved to Postgres | Engineering Blog</title>
<meta property="og:title" content="Why We Moved to Postgres">
</head>
<body>
<header class="site-header">
<a href="/">Engineering Blog</a>
<a href="/archive">Archive</a>
</header>
<div class="related-posts">
<ul>
<li><a href="/posts/1">Scaling our queue</a></li>
<li><a href="/posts/2">A year of on-call</a></li>
</ul>
</div>
<main>
<article class="post">
<h1>Why We Moved to Postgres</h1>
<p>Last spring our team finished migrating every service off the document store we had used for six years.</p>
<h2>What we measured</h2>
<p>Query latency at the ninety-ninth percentile dropped by half once the indexes were in place.</p>
</article>
</main>
<footer class="site-footer">
<p>Subscribe to the newsletter</p>
</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		env, err := ext.Extract(html, "https://blog.example.com/posts/postgres")

		require.NoError(t, err)
		assert.Contains(t, env.Content, "finished migrating every service")
		assert.Contains(t, env.Content, "What we measured")
		assert.Empty(t, env.Error)
	})

	t.Run("fills excerpt from meta description", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Release Notes</title>
<meta name="description" content="Everything that changed in the spring release.">
</head>
<body>
<article>
<h1>Release Notes</h1>
<p>The spring release rewrites the importer and adds resumable uploads for large files.</p>
</article>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		env, err := ext.Extract(html, "https://example.com/releases/spring")

		require.NoError(t, err)
		assert.Equal(t, "Everything that changed in the spring release.", env.Excerpt)
	})

	t.Run("preserves code blocks", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Code Example</title></head>
<body>
<article>
<h1>Code Examples</h1>
<p>Here is a code example:</p>
<pre><code class="language-go">package main

import "fmt"

func main() {
    fmt.Println("Hello, World!")
}
</code></pre>
<p>And here is inline code: <code>go run main.go</code></p>
</article>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		env, err := ext.Extract(html, "https://example.com/page")

		require.NoError(t, err)
		assert.Contains(t, env.Content, "fmt.Println")
		// HTML rendering encodes quotes as &#34;
		assert.Contains(t, env.Content, "Hello, World!")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("", "")

		require.Error(t, err)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("rejects invalid page URL", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("<p>x</p>", "http://[::1")

		require.Error(t, err)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("fills text content alongside html", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Text</title></head>
<body>
<article>
<h1>Plain Text</h1>
<p>The plain text rendering of this paragraph carries no markup at all.</p>
</article>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		env, err := ext.Extract(html, "")

		require.NoError(t, err)
		assert.Empty(t, env.Error)
		assert.Contains(t, env.TextContent, "plain text rendering")
		assert.NotContains(t, env.TextContent, "<p")
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Simple content</p></body></html>`

		ext := trafilatura.NewExtractor()
		env, err := ext.Extract(html, "https://example.com/page")

		require.NoError(t, err)
		assert.Contains(t, env.Content, "Simple content")
	})
}
