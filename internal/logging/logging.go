package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	sloglogrus "github.com/samber/slog-logrus/v2"
	"github.com/sirupsen/logrus"
)

// LevelQuiet is above every level the code logs at.
const LevelQuiet = slog.LevelError + 4

// ParseLevel reads a verbosity: 0-3 or quiet, warning, info, debug.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "quiet":
		return LevelQuiet, nil
	case "1", "warning", "warn":
		return slog.LevelWarn, nil
	case "2", "info":
		return slog.LevelInfo, nil
	case "3", "debug":
		return slog.LevelDebug, nil
	}
	return 0, fmt.Errorf("unknown verbosity %q: expected 0-3, quiet, warning, info or debug", s)
}

// NewHandler returns a handler writing logrus text lines to w.
func NewHandler(level slog.Level, w io.Writer) slog.Handler {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.TraceLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	})

	return sloglogrus.Option{Level: level, Logger: l}.NewLogrusHandler()
}

func New(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(NewHandler(level, w))
}

// Step logs the start of a named step and returns a func logging its end with the elapsed time.
func Step(log *slog.Logger, name string) func() {
	start := time.Now()
	log.Info("step started", "step", name)
	return func() {
		log.Info("step finished", "step", name, "took", time.Since(start))
	}
}
