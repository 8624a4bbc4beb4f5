package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestZapLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapFromOptions(&buf, "json", "debug")

	log.With("agent", "bob").Info(context.Background(), "stats merged", "rows", 3)
	require.NoError(t, log.Sync())

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "stats merged", rec["msg"])
	assert.Equal(t, "bob", rec["agent"])
	assert.EqualValues(t, 3, rec["rows"])
}

func TestZapLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapFromOptions(&buf, "json", "error")
	ctx := context.Background()

	log.Debug(ctx, "d")
	log.Info(ctx, "i")
	log.Warn(ctx, "w")
	log.Error(ctx, "e")

	out := strings.TrimSpace(buf.String())
	assert.Equal(t, 1, strings.Count(out, "\n")+1)
	assert.Contains(t, out, `"msg":"e"`)
}

func TestNew_SelectsBackend(t *testing.T) {
	var buf bytes.Buffer
	_, isZap := New(&buf, "zap", "json", "info").(*ZapLogger)
	assert.True(t, isZap)

	_, isSlog := New(&buf, "", "text", "info").(*SlogLogger)
	assert.True(t, isSlog)
}

func TestZapLevel_MatchesSlogNames(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" WARNING ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, zapLevel(tt.level))
		})
	}
}

func TestZapLogger_WarningLevelDropsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapFromOptions(&buf, "json", "warning")
	ctx := context.Background()

	log.Info(ctx, "i")
	log.Warn(ctx, "w")
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, `"msg":"i"`)
	assert.Contains(t, out, `"msg":"w"`)
}
