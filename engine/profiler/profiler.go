package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	name           string
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastReport     Report
}

// Report is one interval's worth of statistics.
type Report struct {
	// FPS is the number of Tick calls per second over the interval.
	FPS float64

	// HeapMB is the live heap size.
	HeapMB float64

	// AllocRateMB is the allocation rate in MB per second over the interval.
	AllocRateMB float64

	// GCCount is the total number of completed collections.
	GCCount uint32

	// LastPauseUs is the most recent GC pause in microseconds.
	LastPauseUs uint64

	// MaxPauseUs is the longest GC pause since the previous report.
	MaxPauseUs uint64

	// SysMB is the memory obtained from the OS.
	SysMB float64
}

// NewProfiler creates a new Profiler with the specified options applied.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: a variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		name:           "profiler",
		frameCount:     0,
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// LastReport returns the statistics logged by the most recent reporting Tick.
//
// Returns:
//   - Report: the last report, zero before the first interval elapses
func (p *Profiler) LastReport() Report {
	return p.lastReport
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	report := Report{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
	}

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	report.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if gcCount := report.GCCount; gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		report.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > report.MaxPauseUs {
				report.MaxPauseUs = pause
			}
		}
	}

	common.Log.WithFields(common.Fields{
		"source":        p.name,
		"fps":           report.FPS,
		"heap_mb":       report.HeapMB,
		"alloc_rate_mb": report.AllocRateMB,
		"gc":            report.GCCount,
		"gc_last_us":    report.LastPauseUs,
		"gc_max_us":     report.MaxPauseUs,
		"sys_mb":        report.SysMB,
	}).Info("frame stats")

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = report.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.lastReport = report
	return true
}
