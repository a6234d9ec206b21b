package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"microqc-hq/verdict/pkg/config"
)

func TestNew_LevelParsing(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(config.LogConfig{Level: level, Format: "text"})
		if err != nil {
			t.Errorf("level %q rejected: %v", level, err)
			continue
		}
		logger.Close()
	}

	if _, err := New(config.LogConfig{Level: "chatty", Format: "text"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "verdict.log")

	logger, err := New(config.LogConfig{Level: "info", Format: "json", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("run complete", "samples", 3)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"run complete"`) {
		t.Errorf("log file does not contain the JSON record: %q", data)
	}
	if !strings.Contains(string(data), `"samples":3`) {
		t.Errorf("log file does not contain the attribute: %q", data)
	}
}

func TestNew_DebugSuppressedAtInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verdict.log")

	logger, err := New(config.LogConfig{Level: "info", Format: "text", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("hidden")
	logger.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("debug record written at info level")
	}
}
