package axlog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInitJSONFormatProducesParsableLines(t *testing.T) {
	var buf bytes.Buffer
	Init("json", "debug", &buf)
	defer Init("text", "info", nil)

	L("control").Info("listening", "path", "/tmp/axiom.sock")

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected valid JSON log line, got %q: %v", buf.String(), err)
	}
	if decoded[KeyComponent] != "control" {
		t.Fatalf("expected component=control, got %+v", decoded)
	}
	if decoded["path"] != "/tmp/axiom.sock" {
		t.Fatalf("expected path field to round-trip, got %+v", decoded)
	}
}

func TestLoggerCreatedBeforeInitPicksUpNewHandler(t *testing.T) {
	early := L("early")

	var buf bytes.Buffer
	Init("text", "info", &buf)
	defer Init("text", "info", nil)

	early.Info("after init")
	if !strings.Contains(buf.String(), "after init") {
		t.Fatalf("expected logger created before Init to use the handler installed by Init, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init("text", "warn", &buf)
	defer Init("text", "info", nil)

	logger := L("test")
	logger.Info("should be filtered")
	if buf.Len() != 0 {
		t.Fatalf("expected info log to be filtered at warn level, got %q", buf.String())
	}
	logger.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected warn log to appear, got %q", buf.String())
	}
}
