package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("creates logger with default config", func(t *testing.T) {
		logger, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("creates json logger with production config", func(t *testing.T) {
		logger, err := New(ProductionConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("falls back to stdout for unwritable file output", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Output = "/nonexistent-dir/app.log"
		logger, err := New(cfg)
		require.NoError(t, err)
		require.NotNil(t, logger)
	})
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "testing", "production"} {
		logger, err := NewForEnvironment(env)
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLevel(tt.input), "level %q", tt.input)
	}
}

func TestContext(t *testing.T) {
	t.Run("stores and retrieves logger", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := WithContext(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("returns no-op logger for empty context", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("request id round-trips", func(t *testing.T) {
		ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")
		assert.NotNil(t, enriched)
		assert.Equal(t, "req-123", GetRequestID(ctx))
	})

	t.Run("user id round-trips", func(t *testing.T) {
		ctx, _ := WithUserID(context.Background(), zap.NewNop(), "user-456")
		assert.Equal(t, "user-456", GetUserID(ctx))
	})

	t.Run("missing values yield empty strings", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, GetRequestID(ctx))
		assert.Empty(t, GetUserID(ctx))
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MapGormLogLevel(tt.input), "level %q", tt.input)
	}
}
