package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestLoggerFieldsAndLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{zapLogger: zap.New(core), level: zap.NewAtomicLevelAt(zap.InfoLevel)}

	l.With(String("component", "engine")).Info("configured",
		Int("steps", 5), Float64("horizon", 0.25), Error(errors.New("boom")))
	l.Log(LevelDebug, "filtered out")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "engine", ctx["component"])
		assert.Equal(t, int64(5), ctx["steps"])
		assert.Equal(t, 0.25, ctx["horizon"])
		assert.Equal(t, "boom", ctx["error"])
	}

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	l.Log(LevelDebug, "now visible")
	assert.Len(t, logs.All(), 2)
}

func TestProvideFallsBackToNop(t *testing.T) {
	assert.NotNil(t, Provide())
	NewNop().Info("discarded")
}

func TestFromZap(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	l := FromZap(zap.New(core))

	l.Info("dropped by core")
	l.Warn("kept", String("k", "v"))
	if assert.Len(t, logs.All(), 1) {
		assert.Equal(t, "kept", logs.All()[0].Message)
	}
}
