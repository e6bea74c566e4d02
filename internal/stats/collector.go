package stats

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"
)

// Report holds what a Collector gathered over one run of the driver.
type Report struct {
	Start   time.Time
	End     time.Time
	Phases  []Phase
	Samples []Sample
	Summary Summary
}

// Phase marks the moment a named step of the run began.
type Phase struct {
	Name string
	At   time.Duration
}

type Sample struct {
	Elapsed    time.Duration
	HeapAlloc  uint64
	Sys        uint64
	RSS        uint64
	NumGC      uint32
	CPUPercent float64
	SystemCPU  float64
	Goroutines int
}

type Summary struct {
	PeakHeapAlloc  uint64
	PeakSys        uint64
	PeakRSS        uint64
	PeakCPUPercent float64
	AvgCPUPercent  float64
	GCCycles       uint32
	SampleCount    int
	Interval       time.Duration
}

// Collector samples memory and CPU usage of the process in the background.
type Collector struct {
	mu       sync.Mutex
	report   Report
	stopChan chan struct{}
	doneChan chan struct{}
	interval time.Duration
	proc     *process.Process
}

func NewCollector(interval time.Duration) (*Collector, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process info: %w", err)
	}

	return &Collector{
		report: Report{
			Samples: make([]Sample, 0, 256),
		},
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
		proc:     proc,
	}, nil
}

func (c *Collector) Start() {
	c.report.Start = time.Now()
	go c.collect()
}

func (c *Collector) collect() {
	defer close(c.doneChan)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.sample()
	for {
		select {
		case <-c.stopChan:
			c.sample()
			return
		case <-ticker.C:
			c.sample()
		}
	}
}

// Mark records the start of a phase and samples immediately.
func (c *Collector) Mark(name string) {
	c.mu.Lock()
	c.report.Phases = append(c.report.Phases, Phase{Name: name, At: time.Since(c.report.Start)})
	c.mu.Unlock()

	c.sample()
}

func (c *Collector) sample() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	s := Sample{
		Elapsed:    time.Since(c.report.Start),
		HeapAlloc:  memStats.HeapAlloc,
		Sys:        memStats.Sys,
		NumGC:      memStats.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
	if memInfo, err := c.proc.MemoryInfo(); err == nil && memInfo != nil {
		s.RSS = memInfo.RSS
	}
	if cpuPercent, err := c.proc.CPUPercent(); err == nil {
		s.CPUPercent = cpuPercent
	}
	if total, err := cpu.Percent(0, false); err == nil && len(total) > 0 {
		s.SystemCPU = total[0]
	}

	c.mu.Lock()
	c.report.Samples = append(c.report.Samples, s)
	c.mu.Unlock()
}

// Stop ends sampling and returns the report.
func (c *Collector) Stop() Report {
	close(c.stopChan)
	<-c.doneChan

	c.mu.Lock()
	defer c.mu.Unlock()

	c.report.End = time.Now()
	c.report.Summary = summarize(c.report.Samples)
	c.report.Summary.Interval = c.interval
	return c.report
}

func summarize(samples []Sample) Summary {
	var sum Summary
	if len(samples) == 0 {
		return sum
	}

	var totalCPU float64
	for _, s := range samples {
		sum.PeakHeapAlloc = max(sum.PeakHeapAlloc, s.HeapAlloc)
		sum.PeakSys = max(sum.PeakSys, s.Sys)
		sum.PeakRSS = max(sum.PeakRSS, s.RSS)
		sum.PeakCPUPercent = max(sum.PeakCPUPercent, s.CPUPercent)
		totalCPU += s.CPUPercent
	}
	sum.GCCycles = samples[len(samples)-1].NumGC - samples[0].NumGC
	sum.SampleCount = len(samples)
	sum.AvgCPUPercent = totalCPU / float64(len(samples))
	return sum
}
