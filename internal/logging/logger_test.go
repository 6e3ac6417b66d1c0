package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"doomctl/internal/logging"
)

func TestConsoleHandlerPrefixesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	scoped := logging.WithComponent(logger, "resolver")
	scoped.Info("search started", logging.String("root", "/home/u/doom"))

	line := buf.String()
	if !strings.Contains(line, "INFO resolver: search started") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "root=/home/u/doom") {
		t.Fatalf("missing attribute in console line: %q", line)
	}
}

func TestConsoleHandlerQuotesSpacedValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("resolved", logging.String("path", "/doom/3P Sound Pack.wad"))
	if !strings.Contains(buf.String(), `path="/doom/3P Sound Pack.wad"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("queued", logging.Int("jobs", 3))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if payload["msg"] != "queued" {
		t.Fatalf("expected msg field, got %v", payload)
	}
	if payload["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts field, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &buf}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing: %q", out)
	}
}
