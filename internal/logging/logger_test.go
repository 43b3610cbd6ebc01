package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"Trace", LevelTrace},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)

	logger.Debug("hidden")
	logger.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message leaked at info level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestNewLoggerLabelsTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)

	logger.Log(nil, LevelTrace, "board dump")

	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("trace output not labeled TRACE: %q", buf.String())
	}
}

func TestNewStepLoggerNilAtInfoLevel(t *testing.T) {
	sl := NewStepLogger(t.TempDir(), "info")
	if sl != nil {
		t.Fatal("expected nil step logger at info level")
	}
	// All methods must be nil-safe.
	sl.Log(StepEvent{Step: 1})
	sl.Close()
}

func TestStepLoggerWritesJSONL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".galton")
	sl := NewStepLogger(dir, "debug")
	if sl == nil {
		t.Fatal("expected step logger at debug level")
	}

	sl.Log(StepEvent{Step: 0, Remaining: 2, InFlight: []int{0, -1, -1}, Slots: []int{0, 0, 0}, Changed: true})
	sl.Log(StepEvent{Step: 1, Remaining: 1, InFlight: []int{0, 1, -1}, Slots: []int{0, 0, 0}, Changed: true})
	sl.Close()

	data, err := os.ReadFile(filepath.Join(dir, "steps.jsonl"))
	if err != nil {
		t.Fatalf("reading steps.jsonl: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var ev StepEvent
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("unmarshaling line: %v", err)
	}
	if ev.Step != 1 || ev.Remaining != 1 || !ev.Changed {
		t.Errorf("event = %+v, want step 1, remaining 1, changed", ev)
	}
	if ev.Time == "" {
		t.Error("event time not set")
	}
}
