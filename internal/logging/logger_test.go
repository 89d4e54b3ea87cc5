package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestConsoleHandlerFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(&consoleHandler{mu: &sync.Mutex{}, out: &buf, level: lvl})

	logger.Info("recipe parsed", slog.String(FieldProvider, "openai"), slog.String(FieldSource, "video url"))

	line := buf.String()
	if !strings.Contains(line, "INFO") || !strings.Contains(line, "recipe parsed") {
		t.Fatalf("line = %q", line)
	}
	if !strings.Contains(line, "provider=openai") {
		t.Fatalf("missing provider attr: %q", line)
	}
	if !strings.Contains(line, `source="video url"`) {
		t.Fatalf("attr with spaces not quoted: %q", line)
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(&consoleHandler{mu: &sync.Mutex{}, out: &buf, level: lvl})

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("info record should be filtered")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatal("warn record missing")
	}
}

func TestJSONHandlerKeyNames(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl))

	logger.Error("boom", slog.String(FieldComponent, "extract"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["level"] != "error" || record["msg"] != "boom" {
		t.Fatalf("record = %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("missing ts key")
	}
	if record[FieldComponent] != "extract" {
		t.Fatalf("component = %v", record[FieldComponent])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
