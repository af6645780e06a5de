package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowmapgo/pkg/config"
)

func testLogConfig(dir string) *config.LogConfig {
	return &config.LogConfig{
		Server:   config.LogSettings{Path: filepath.Join(dir, "server.log"), Level: "INFO"},
		Requests: config.LogSettings{Path: filepath.Join(dir, "requests.log"), Level: "INFO"},
	}
}

func TestInitCreatesLogFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testLogConfig(dir)

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer cleanup()

	slog.Info("hello from test")
	RequestLogger.Info("request logged")

	data, err := os.ReadFile(cfg.Server.Path)
	if err != nil {
		t.Fatalf("server log not created: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("server log missing entry: %q", string(data))
	}

	data, err = os.ReadFile(cfg.Requests.Path)
	if err != nil {
		t.Fatalf("requests log not created: %v", err)
	}
	if !strings.Contains(string(data), "request logged") {
		t.Errorf("requests log missing entry: %q", string(data))
	}
}

func TestInitRotatesPrevious(t *testing.T) {
	dir := t.TempDir()
	cfg := testLogConfig(dir)

	if err := os.WriteFile(cfg.Server.Path, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer cleanup()

	old, err := os.ReadFile(cfg.Server.Path + ".old")
	if err != nil {
		t.Fatalf("rotated log missing: %v", err)
	}
	if !strings.Contains(string(old), "previous run") {
		t.Errorf("rotated log content: %q", string(old))
	}
}

func TestLogCapture(t *testing.T) {
	dir := t.TempDir()
	cleanup, err := Init(testLogConfig(dir))
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer cleanup()

	slog.Info("captured line", "key", "value")
	last := GlobalLogCapture.GetLastLine()
	if !strings.Contains(last, "captured line") {
		t.Errorf("capture buffer = %q", last)
	}
}
