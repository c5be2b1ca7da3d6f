package utils

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "exactly the limit",
			input:  "hello",
			limit:  5,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
		{
			name:   "counts runes",
			input:  "опыт работы",
			limit:  4,
			expect: "опыт...",
		},
		{
			name:   "evidence sized",
			input:  strings.Repeat("x", 250),
			limit:  200,
			expect: strings.Repeat("x", 200) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Truncate(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestWaitFor(t *testing.T) {
	originalSleep := sleep
	defer func() { sleep = originalSleep }()

	var slept time.Duration
	sleep = func(d time.Duration) { slept = d }

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error for zero duration: %v", err)
	}
	if slept != 0 {
		t.Fatalf("expected no sleep for zero duration, got %s", slept)
	}

	if err := WaitFor(context.Background(), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slept != time.Second {
		t.Fatalf("expected sleep of 1s, got %s", slept)
	}

	started := make(chan struct{})
	block := make(chan struct{})
	sleep = func(time.Duration) {
		close(started)
		<-block
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	err := WaitFor(ctx, time.Hour)
	close(block)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDumpToTmpFile(t *testing.T) {
	t.Parallel()

	path, err := DumpToTmpFile("dump_*.json", map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "{\n  \"a\": 1\n}" {
		t.Fatalf("unexpected dump content: %q", got)
	}
}
