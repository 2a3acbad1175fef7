package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"emberpath/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	logger, err := New(config.LogConfig{Level: "debug", Encoding: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("navigated", zap.String("event_id", "shop_1"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"event_id":"shop_1"`) || !strings.Contains(line, `"level":"INFO"`) {
		t.Errorf("Unexpected log line: %s", line)
	}
	if !strings.Contains(line, `"timestamp"`) {
		t.Errorf("Expected timestamp key, got %s", line)
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(config.LogConfig{Level: "loud", Output: filepath.Join(t.TempDir(), "x.log")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Debug should be disabled at info level")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("Info should be enabled")
	}
}

func TestNew_BadOutputPath(t *testing.T) {
	_, err := New(config.LogConfig{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	if err == nil {
		t.Error("Expected error for unwritable output path")
	}
}
