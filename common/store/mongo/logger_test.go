package mongo

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry %q: %v", buf.String(), err)
	}
	return entry
}

func TestLogger_MapsLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	l.Info(2, "command started", "commandName", "find", "requestId", 7)
	entry := decode(t, &buf)
	if entry["level"] != "debug" || entry["commandName"] != "find" || entry["requestId"] != float64(7) {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["component"] != "mongo-driver" {
		t.Fatalf("missing component field: %v", entry)
	}

	buf.Reset()
	l.Info(3, "too verbose")
	if buf.Len() != 0 {
		t.Fatalf("expected level 3 to be dropped, got %q", buf.String())
	}

	buf.Reset()
	l.Error(errors.New("boom"), "pool cleared", "dangling")
	entry = decode(t, &buf)
	if entry["level"] != "error" || entry["error"] != "boom" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if v, ok := entry["dangling"]; !ok || v != nil {
		t.Fatalf("expected dangling key with null value: %v", entry)
	}
}
