package distill_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    distill.Mode
		wantErr bool
	}{
		{in: "", want: distill.ModeRaw},
		{in: "raw", want: distill.ModeRaw},
		{in: "readable", want: distill.ModeReadable},
		{in: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := distill.ParseMode(tt.in)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     distill.Request
		wantErr bool
	}{
		{name: "valid raw", req: distill.Request{URL: "https://example.com/article", Mode: distill.ModeRaw}},
		{name: "valid readable", req: distill.Request{URL: "http://example.com", Mode: distill.ModeReadable}},
		{name: "empty url", req: distill.Request{Mode: distill.ModeRaw}, wantErr: true},
		{name: "ftp scheme", req: distill.Request{URL: "ftp://example.com", Mode: distill.ModeRaw}, wantErr: true},
		{name: "missing host", req: distill.Request{URL: "https:///path", Mode: distill.ModeRaw}, wantErr: true},
		{name: "unparseable", req: distill.Request{URL: "http://exa mple.com/%zz", Mode: distill.ModeRaw}, wantErr: true},
		{name: "unknown mode", req: distill.Request{URL: "https://example.com", Mode: "pdf"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestResult_ArticleHTML(t *testing.T) {
	t.Parallel()

	t.Run("raw mode has no html", func(t *testing.T) {
		t.Parallel()

		res := &distill.Result{Mode: distill.ModeRaw}

		assert.Empty(t, res.ArticleHTML())
	})

	t.Run("readable mode returns html", func(t *testing.T) {
		t.Parallel()

		html := "<p>Hi</p>"
		res := &distill.Result{Mode: distill.ModeReadable, HTML: &html}

		assert.Equal(t, "<p>Hi</p>", res.ArticleHTML())
	})
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	html := "<p>Hi</p>"
	rec := distill.NewRecord(&distill.Result{
		URL:      "https://example.com/article",
		Mode:     distill.ModeReadable,
		Title:    "Example",
		Markdown: "Hi",
		HTML:     &html,
	})

	require.NoError(t, rec.Validate())
	assert.Equal(t, "https://example.com/article", rec.URL)
	assert.Equal(t, distill.ModeReadable, rec.Mode)
	assert.Equal(t, "Example", rec.Title)
	assert.Equal(t, "Hi", rec.Markdown)
	assert.Equal(t, "<p>Hi</p>", rec.HTML)
}
