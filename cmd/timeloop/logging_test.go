package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLogging_FallbackWriter(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := setupLogging("", "warn", &buf)
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	if closer != nil {
		t.Error("Expected nil closer without a log path")
	}

	log.Info("hidden")
	log.Warn("shown", "target", "engine")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info must be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "target=engine") {
		t.Errorf("Expected warn record with target, got %q", out)
	}
}

func TestSetupLogging_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeloop.log")
	log, closer, err := setupLogging(path, "debug", nil)
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	if closer == nil {
		t.Fatal("Expected closer for a log file")
	}
	log.Debug("Test log message")
	closer.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeloop.log")
	if err := os.WriteFile(path, make([]byte, maxLogSize+1), 0o644); err != nil {
		t.Fatalf("Failed to create large log file: %v", err)
	}

	_, closer, err := setupLogging(path, "info", nil)
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	closer.Close()

	if _, err := os.Stat(path + ".old"); err != nil {
		t.Errorf("Expected rotated file: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", maxLogSize, info.Size())
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"trace", "debug", "info", "WARN", "error", ""} {
		if _, err := parseLevel(name); err != nil {
			t.Errorf("parseLevel(%q) failed: %v", name, err)
		}
	}
	if _, err := parseLevel("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}
