package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "galton version") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestVersionCmdJSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshaling: %v\n%s", err, out)
	}
	if got["version"] == "" {
		t.Errorf("missing version field: %v", got)
	}
}

func TestConfigCmdDefaults(t *testing.T) {
	out, err := execute(t, "config", "--root", t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"simulation:", "history:", "logging:"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCmdJSON(t *testing.T) {
	out, err := execute(t, "config", "--root", t.TempDir(), "--json")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshaling: %v\n%s", err, out)
	}
}
