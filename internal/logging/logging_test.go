package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_FileSinkWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "notedrop.log")
	logger, err := New(Options{Path: path, Level: "info"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("listing loaded")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"listing loaded"`) {
		t.Fatalf("log = %q, want JSON line", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line written at info level: %q", out)
	}
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notedrop.log")
	logger, err := New(Options{Path: path, Level: "warn", Verbose: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("probe")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "probe") {
		t.Fatalf("verbose logger dropped debug line: %q", data)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(Options{Level: "loud", Console: true}); err == nil {
		t.Fatal("New accepted an unknown level")
	}
	if _, err := New(Options{}); err == nil {
		t.Fatal("New accepted an empty file path")
	}
}
