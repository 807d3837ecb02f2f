package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/mock"
	dslog "github.com/fwojciec/distill/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingWriter_WriteResult(t *testing.T) {
	t.Parallel()

	t.Run("logs writer name and url", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var got *distill.Result
		inner := &mock.ResultWriter{
			WriteResultFn: func(_ context.Context, res *distill.Result) error {
				got = res
				return nil
			},
		}

		res := &distill.Result{URL: "https://example.com", Mode: distill.ModeRaw}
		w := dslog.NewLoggingWriter(inner, "fs", logger)
		require.NoError(t, w.WriteResult(context.Background(), res))

		assert.Same(t, res, got)
		output := buf.String()
		assert.Contains(t, output, "write result")
		assert.Contains(t, output, "writer=fs")
		assert.Contains(t, output, "url=https://example.com")
		assert.Contains(t, output, "mode=raw")
	})

	t.Run("logs and returns error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ResultWriter{
			WriteResultFn: func(context.Context, *distill.Result) error {
				return errors.New("disk full")
			},
		}

		w := dslog.NewLoggingWriter(inner, "sqlite", logger)
		err := w.WriteResult(context.Background(), &distill.Result{URL: "https://example.com", Mode: distill.ModeRaw})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"disk full\"")
	})
}
