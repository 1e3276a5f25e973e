package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpersBeforeInit(t *testing.T) {
	prev := Logger
	Logger = nil
	t.Cleanup(func() { Logger = prev })

	// Must not panic without a logger.
	Debug("debug")
	Info("info")
	Warn("warn", "key", 1)
	Error("error", "err", "boom")
}

func TestInitWritesFile(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	dir := filepath.Join(t.TempDir(), "logs")
	if err := Init(Config{LogDir: dir}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger should be set after Init")
	}

	Info("session stopped", "minutes", 25)
	Debug("hidden at info level")

	data, err := os.ReadFile(filepath.Join(dir, "studyhub.log"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "session stopped") || !strings.Contains(out, "minutes=25") {
		t.Fatalf("log file missing entry: %q", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Fatal("debug entries should be filtered without debug mode")
	}
}

func TestInitBadDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Init(Config{LogDir: filepath.Join(f, "logs")}); err == nil {
		t.Fatal("expected error when log dir cannot be created")
	}
}
