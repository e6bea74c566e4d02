package stats_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/royalcat/kdgeo/internal/stats"
)

func TestCollector(t *testing.T) {
	c, err := stats.NewCollector(time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	c.Start()
	c.Mark("read")
	buf := make([]byte, 1<<20)
	buf[0] = 1
	c.Mark("build")
	time.Sleep(5 * time.Millisecond)
	report := c.Stop()

	if len(report.Phases) != 2 || report.Phases[0].Name != "read" || report.Phases[1].Name != "build" {
		t.Fatalf("unexpected phases: %+v", report.Phases)
	}
	if report.Summary.SampleCount < 4 {
		t.Fatalf("expected at least 4 samples, got %d", report.Summary.SampleCount)
	}
	if report.Summary.PeakHeapAlloc == 0 {
		t.Fatalf("expected a heap peak")
	}
	if !report.End.After(report.Start) {
		t.Fatalf("expected end after start")
	}
}

func TestReport(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	report := stats.Report{
		Start:  start,
		End:    start.Add(3 * time.Second),
		Phases: []stats.Phase{{Name: "read", At: 0}, {Name: "build", At: time.Second}},
		Samples: []stats.Sample{
			{Elapsed: 0, HeapAlloc: 1024, RSS: 4096},
			{Elapsed: time.Second, HeapAlloc: 3 << 20, RSS: 8 << 20, CPUPercent: 50},
		},
		Summary: stats.Summary{PeakHeapAlloc: 3 << 20, PeakRSS: 8 << 20, GCCycles: 1234, SampleCount: 2, Interval: time.Second},
	}

	var sb strings.Builder
	if _, err := report.WriteTo(&sb); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	out := sb.String()

	for _, want := range []string{"duration  3s", "read", "1s", "build", "2s", "heap      3.0 MiB", "rss       8.0 MiB", "1,234 cycles"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}

	name := filepath.Join(t.TempDir(), "stats.txt")
	if err := report.SaveToFile(name); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	if string(data) != out {
		t.Fatalf("file content differs from rendered report")
	}
}
