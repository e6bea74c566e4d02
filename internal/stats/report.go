package stats

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const maxSamples = 50

// WriteTo renders the report as plain text.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder

	sb.WriteString("RUNTIME STATISTICS\n")
	fmt.Fprintf(&sb, "  started   %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(&sb, "  duration  %s\n", r.End.Sub(r.Start).Round(time.Millisecond))
	fmt.Fprintf(&sb, "  samples   %d every %s\n", r.Summary.SampleCount, r.Summary.Interval)
	sb.WriteString("\n")

	if len(r.Phases) > 0 {
		sb.WriteString("PHASES\n")
		for i, p := range r.Phases {
			end := r.End.Sub(r.Start)
			if i+1 < len(r.Phases) {
				end = r.Phases[i+1].At
			}
			fmt.Fprintf(&sb, "  %-20s %10s\n", p.Name, (end - p.At).Round(time.Microsecond))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("PEAKS\n")
	fmt.Fprintf(&sb, "  heap      %s\n", humanize.IBytes(r.Summary.PeakHeapAlloc))
	fmt.Fprintf(&sb, "  sys       %s\n", humanize.IBytes(r.Summary.PeakSys))
	fmt.Fprintf(&sb, "  rss       %s\n", humanize.IBytes(r.Summary.PeakRSS))
	fmt.Fprintf(&sb, "  cpu       %.1f%% (avg %.1f%%)\n", r.Summary.PeakCPUPercent, r.Summary.AvgCPUPercent)
	fmt.Fprintf(&sb, "  gc        %s cycles\n", humanize.Comma(int64(r.Summary.GCCycles)))
	sb.WriteString("\n")

	samples := r.Samples
	if len(samples) > maxSamples {
		step := float64(len(samples)-1) / float64(maxSamples-1)
		picked := make([]Sample, 0, maxSamples)
		for i := range maxSamples {
			picked = append(picked, samples[int(float64(i)*step)])
		}
		samples = picked
	}

	sb.WriteString("SAMPLES\n")
	fmt.Fprintf(&sb, "  %-10s %-10s %-10s %-8s %-8s\n", "elapsed", "heap", "rss", "cpu%", "sys cpu%")
	for _, s := range samples {
		fmt.Fprintf(&sb, "  %-10s %-10s %-10s %-8.1f %-8.1f\n",
			s.Elapsed.Round(time.Millisecond),
			humanize.IBytes(s.HeapAlloc),
			humanize.IBytes(s.RSS),
			s.CPUPercent,
			s.SystemCPU,
		)
	}

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// SaveToFile writes the report to filename, or to stdout for "-".
func (r *Report) SaveToFile(filename string) error {
	if filename == "-" {
		_, err := r.WriteTo(os.Stdout)
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create stats file: %w", err)
	}
	if _, err := r.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return f.Close()
}
