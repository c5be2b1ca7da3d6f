package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")

	log, err := New(Options{JSON: true, Debug: true, Outputs: []string{path}, Name: "resume-ranker"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Debug("candidate scored")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("decode entry %q: %v", data, err)
	}

	if entry["step"] != "candidate scored" || entry["level"] != "debug" || entry["logger"] != "resume-ranker" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewSkipsDebugByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")

	log, err := New(Options{Outputs: []string{path}})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Debug("hidden")
	log.Info("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("unexpected log content: %q", data)
	}
}
