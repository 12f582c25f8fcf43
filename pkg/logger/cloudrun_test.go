package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestCloudRunHandlerWritesSeverityAndData(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerWriter(slog.LevelInfo, &buf))

	log.With("request_id", "r1").WithGroup("settings").Warn("autosave failed", "uid", "u1", "error", errors.New("boom"))

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if event["severity"] != "WARNING" {
		t.Fatalf("severity = %v, want WARNING", event["severity"])
	}
	data, ok := event["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data: %v", event)
	}
	if data["request_id"] != "r1" {
		t.Fatalf("request_id = %v", data["request_id"])
	}
	if data["settings.uid"] != "u1" {
		t.Fatalf("grouped key missing: %v", data)
	}
	if data["settings.error"] != "boom" {
		t.Fatalf("error not stringified: %v", data["settings.error"])
	}
}

func TestCloudRunHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerWriter(slog.LevelWarn, &buf))

	log.Info("ignored")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestGetSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := getSlogLevel(in); got != want {
			t.Errorf("getSlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
