package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/pkg/logger"
)

func TestSetupProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	closeFn, err := logger.Setup(logger.Options{Env: "production", Output: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Info("catalog queried", "count", 3)
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, `"msg":"catalog queried"`)
	assert.Contains(t, out, `"count":3`)
	assert.NotContains(t, out, "hidden")
}

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, logger.L, logger.WithCtx(context.Background()))

	scoped := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)).With("request_id", "abc")
	ctx := logger.InjectLogger(context.Background(), scoped)
	assert.Same(t, scoped, logger.WithCtx(ctx))
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := logger.NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)
	slog.New(h).With("request_id", "r1").Info("hello")

	assert.Contains(t, a.String(), "request_id=r1")
	assert.Contains(t, b.String(), `"request_id":"r1"`)
}
