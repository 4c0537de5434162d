package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_LevelAndServiceField(t *testing.T) {
	log := New("sync", Config{Level: "debug", Format: "json"})

	if log.Logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", log.Logger.GetLevel())
	}

	var buf bytes.Buffer
	log.Logger.SetOutput(&buf)
	log.WithField("run_id", "run_1").Info("started")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if line["service"] != "sync" || line["run_id"] != "run_1" || line["msg"] != "started" {
		t.Fatalf("unexpected fields: %v", line)
	}
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	log := New("api", Config{Level: "loud"})
	if log.Logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", log.Logger.GetLevel())
	}
	if _, ok := log.Logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected text formatter by default")
	}
}

func TestOutput_FileIsRotatedWriter(t *testing.T) {
	var stdout bytes.Buffer
	w := output(&stdout, filepath.Join(t.TempDir(), "sync.log"))
	if w == &stdout {
		t.Fatalf("expected a multi writer when a file is configured")
	}
	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if stdout.String() != "hello\n" {
		t.Fatalf("expected stdout copy, got %q", stdout.String())
	}
}
