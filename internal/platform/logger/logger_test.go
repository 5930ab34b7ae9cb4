package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        Info,
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"nope":    Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLogger_JSON_IncludesBaseAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "vidalink", Out: &buf})

	l.With(map[string]any{"share_id": "s-1"}).Info("share issued", map[string]any{
		"owner_id": "u-1",
		"":         "ignored",
		"err":      errors.New("boom"),
	})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid json log line: %v (%s)", err, buf.String())
	}
	if entry["message"] != "share issued" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry["app"] != "vidalink" || entry["share_id"] != "s-1" || entry["owner_id"] != "u-1" {
		t.Fatalf("missing fields: %#v", entry)
	}
	if entry["err"] != "boom" {
		t.Fatalf("expected error rendered as string, got %#v", entry["err"])
	}
	if _, ok := entry[""]; ok {
		t.Fatalf("empty key should be dropped")
	}
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Format: FormatJSON, Out: &buf})

	l.Info("hidden", nil)
	l.Warn("shown", nil)

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %s", out)
	}
}
