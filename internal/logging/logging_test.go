package logging_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/royalcat/kdgeo/internal/logging"
	"github.com/thejerf/slogassert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"0", logging.LevelQuiet},
		{"quiet", logging.LevelQuiet},
		{"1", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"2", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"3", slog.LevelDebug},
		{" debug ", slog.LevelDebug},
	}

	for _, tt := range tests {
		got, err := logging.ParseLevel(tt.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %s", tt.in, err.Error())
		}
		if got != tt.want {
			t.Fatalf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := logging.ParseLevel("4"); err == nil {
		t.Fatalf("expected error for 4")
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(slog.LevelWarn, &buf)

	log.Info("hidden")
	log.Warn("shown", "points", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message leaked at warning level: %s", out)
	}
	if !strings.Contains(out, "level=warning") || !strings.Contains(out, "msg=shown") || !strings.Contains(out, "points=42") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestQuiet(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.LevelQuiet, &buf)

	log.Error("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %s", buf.String())
	}
}

func TestStep(t *testing.T) {
	handler := slogassert.New(t, slog.LevelDebug, nil)
	log := slog.New(handler)

	done := logging.Step(log, "build")
	handler.AssertMessage("step started")
	done()
	handler.AssertMessage("step finished")
}
