package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersWriteToGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })

	Debug("d")
	Info("i", zap.String("k", "v"))
	Warn("w")
	Error("e")

	entries := logs.All()
	require.Len(t, entries, 4)
	require.Equal(t, "i", entries[1].Message)
	require.Equal(t, "v", entries[1].ContextMap()["k"])
	require.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestInit(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	require.NoError(t, Init("debug", "console"))
	require.True(t, L().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("not-a-level", "json"))
	require.False(t, L().Core().Enabled(zapcore.DebugLevel))
	require.True(t, L().Core().Enabled(zapcore.InfoLevel))
}
