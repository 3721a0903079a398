package logger_test

import (
	"errors"
	"testing"

	"pet-shop-platform/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logger.Level{
		"":        logger.Info,
		"debug":   logger.Debug,
		" WARN ":  logger.Warn,
		"warning": logger.Warn,
		"error":   logger.Error,
		"verbose": logger.Info,
	}
	for in, want := range cases {
		assert.Equal(t, want, logger.ParseLevel(in), "input %q", in)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, logger.FormatJSON, logger.ParseFormat("JSON"))
	assert.Equal(t, logger.FormatText, logger.ParseFormat("logfmt"))
}

func TestZapLogger_WithMergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logger.Wrap(zap.New(core))

	l.With(map[string]any{"service": "pets"}).Warn("owner lookup failed", map[string]any{
		"user_id": 7,
		"err":     errors.New("timeout"),
		" ":       "ignored",
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "owner lookup failed", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "pets", ctx["service"])
	assert.EqualValues(t, 7, ctx["user_id"])
	assert.Equal(t, "timeout", ctx["err"])
	assert.NotContains(t, ctx, " ")
}

func TestZapLogger_LevelFilter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := logger.Wrap(zap.New(core))

	l.Debug("hidden", nil)
	l.Info("shown", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}
