package zerologsink

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return out
}

func TestSink_Info(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(zerolog.New(&buf)).WithName("discovery").WithName("engine").WithValues("capability", "logging")

	l.Info("candidate selected", "package", "go.uber.org/zap")

	entry := decode(t, &buf)
	if entry["message"] != "candidate selected" {
		t.Fatalf("unexpected message: %v", entry)
	}
	if entry["level"] != "info" {
		t.Fatalf("expected info level, got %v", entry["level"])
	}
	if entry["logger"] != "discovery.engine" {
		t.Fatalf("expected joined name, got %v", entry["logger"])
	}
	if entry["capability"] != "logging" || entry["package"] != "go.uber.org/zap" {
		t.Fatalf("expected key/values, got %v", entry)
	}
}

func TestSink_Error(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(zerolog.New(&buf))

	l.Error(errors.New("boom"), "discovery failed")

	entry := decode(t, &buf)
	if entry["level"] != "error" || entry["error"] != "boom" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestSink_VerbosityFollowsLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	l.V(1).Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected V(1) suppressed at info level, got %q", buf.String())
	}

	l = NewLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	l.V(1).Info("shown")
	if entry := decode(t, &buf); entry["level"] != "debug" {
		t.Fatalf("expected debug entry, got %v", entry)
	}
}

func TestSink_WithValuesDoesNotAlias(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(zerolog.New(&buf)).WithValues("a", 1)
	_ = base.WithValues("b", 2)

	base.Info("msg")
	entry := decode(t, &buf)
	if _, ok := entry["b"]; ok {
		t.Fatalf("expected parent logger unaffected by child values, got %v", entry)
	}
}
