package logger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, fn func()) (stdout string, stderr string) {
	origOut, origErr := os.Stdout, os.Stderr
	defer func() { os.Stdout, os.Stderr = origOut, origErr }()

	rOut, wOut, err := os.Pipe()
	require.NoError(t, err, "failed to create stdout pipe")
	rErr, wErr, err := os.Pipe()
	require.NoError(t, err, "failed to create stderr pipe")

	os.Stdout, os.Stderr = wOut, wErr

	fn()

	err = wOut.Close()
	require.NoError(t, err, "failed to close stdout pipe")
	err = wErr.Close()
	require.NoError(t, err, "failed to close stderr pipe")

	outBytes, err := io.ReadAll(rOut)
	require.NoError(t, err, "failed to read stdout pipe")
	errBytes, err := io.ReadAll(rErr)
	require.NoError(t, err, "failed to read stderr pipe")

	return string(outBytes), string(errBytes)
}

func TestLogger_parseLevelString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"Debug level", "DEBUG", slog.LevelDebug},
		{"Debug level lowercase", "debug", slog.LevelDebug},
		{"Info level", "INFO", slog.LevelInfo},
		{"Warn level", "warn", slog.LevelWarn},
		{"Error level", "error", slog.LevelError},
		{"Unknown defaults to info", "unknown", slog.LevelInfo},
		{"Empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLevelString(tt.input)

			require.Equal(t, tt.expected, got, "parseLevelString(%q) should return %v", tt.input, tt.expected)
		})
	}
}

func TestLogger_NewDevLogger(t *testing.T) {
	stdout, _ := capture(t, func() {
		logger, err := New(EnvDevelopment, LevelInfo)
		require.NoError(t, err)

		logger.Info("test message", "key", "value")
	})

	require.NotEmpty(t, stdout, "Text logger should write to stdout")
	require.Contains(t, stdout, "test message")
	require.Contains(t, stdout, "key=value")
	require.Contains(t, stdout, "INFO")
}

func TestLogger_NewProdLogger(t *testing.T) {
	stdout, _ := capture(t, func() {
		logger, err := New(EnvProduction, LevelInfo)
		require.NoError(t, err)

		logger.Info("test message", "key", "value")
	})

	require.NotEmpty(t, stdout, "JSON logger should write to stdout")

	var entry map[string]any
	err := json.Unmarshal([]byte(stdout), &entry)
	require.NoError(t, err, "JSON log should be valid")
	require.Equal(t, "test message", entry["msg"], "JSON log should contain the message")
	require.Equal(t, "INFO", entry["level"], "JSON log should contain the level")
	require.Equal(t, "value", entry["key"], "JSON log should contain key-value pairs")
}

func TestLogger_NewUnknownEnv(t *testing.T) {
	_, err := New("staging", LevelInfo)

	require.Error(t, err, "unknown environment should be rejected")
}

func TestLogger_NewNoOp(t *testing.T) {
	stdout, stderr := capture(t, func() {
		logger := NewNoOp()
		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")
	})

	require.Empty(t, stdout, "NoOp logger should not write to stdout")
	require.Empty(t, stderr, "NoOp logger should not write to stderr")
}

func TestLogger_LevelFiltering(t *testing.T) {
	stdout, _ := capture(t, func() {
		logger, err := New(EnvDevelopment, LevelWarn)
		require.NoError(t, err)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
	})

	require.NotContains(t, stdout, "debug message")
	require.NotContains(t, stdout, "info message")
	require.Contains(t, stdout, "warn message")
}

func TestLogger_With(t *testing.T) {
	stdout, _ := capture(t, func() {
		logger, err := New(EnvDevelopment, LevelInfo)
		require.NoError(t, err)

		logger.With("request_id", "abc").Info("test message")
	})

	require.Contains(t, stdout, "request_id=abc")
}
