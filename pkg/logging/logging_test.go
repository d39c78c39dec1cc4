package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	table := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range table {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}

func TestNewJSON(t *testing.T) {
	var b bytes.Buffer
	log := New(&b, slog.LevelInfo, "json")
	log.Debug("hidden")
	log.Info("fetched tides", "location", "crystal")

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), b.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if rec["msg"] != "fetched tides" || rec["location"] != "crystal" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNewText(t *testing.T) {
	var b bytes.Buffer
	New(&b, slog.LevelInfo, "text").Warn("tides unavailable", "location", "tampa")
	if !strings.Contains(b.String(), "tides unavailable") || !strings.Contains(b.String(), "tampa") {
		t.Errorf("unexpected output %q", b.String())
	}
}
