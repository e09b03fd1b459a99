package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextDefaultsToNop(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	// Must not panic without an attached logger.
	Info(context.Background(), "ignored")
}

func TestWithAttachesLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := With(context.Background(), NewZapLogger(zap.New(core)))

	Infow(ctx, "hello", "key", "value")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "value", entry.ContextMap()["key"])
}

func TestNamedAndWithReturnChildren(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewZapLogger(zap.New(core)).Named("oauth").With("provider", "acme")

	logger.Debugw("begin")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "oauth", entry.LoggerName)
	assert.Equal(t, "acme", entry.ContextMap()["provider"])
}
