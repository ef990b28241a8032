// sim/stats.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/flybysim/flyby/log"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats collects a few statistics about frame pacing and resource usage
// over the course of a run.
type Stats struct {
	startTime time.Time
	frames    int
	sub       *EventsSubscription
}

var startupMallocs uint64

func NewStats(events *EventStream) *Stats {
	return &Stats{
		startTime: time.Now(),
		sub:       events.Subscribe(),
	}
}

func (stats *Stats) LogValue(lg *log.Logger) slog.Value {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	if startupMallocs == 0 { // first call
		startupMallocs = mem.Mallocs
	}

	// Without a logger the malloc rate falls back to the stats start time.
	start := stats.startTime
	if lg != nil {
		start = lg.Start
	}
	elapsed := time.Since(start).Seconds()
	mallocsPerSecond := float64(mem.Mallocs-startupMallocs) / elapsed

	attrs := []slog.Attr{
		slog.Float64("frames_per_second", float64(stats.frames)/time.Since(stats.startTime).Seconds()),
		slog.Float64("mallocs_per_second", mallocsPerSecond),
		slog.Int64("active_mallocs", int64(mem.Mallocs-mem.Frees)),
		slog.Int64("memory_in_use", int64(mem.HeapAlloc)),
	}

	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		attrs = append(attrs, slog.Float64("cpu_percent", pct[0]))
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			attrs = append(attrs, slog.Int64("rss", int64(mi.RSS)))
		}
	}

	return slog.GroupValue(attrs...)
}

// Report drains frame events and logs the accumulated statistics once a
// minute until the context is canceled.
func (stats *Stats) Report(ctx context.Context, lg *log.Logger) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			stats.sub.Unsubscribe()
			return

		case <-ticker.C:
			stats.frames += len(stats.sub.Get())
			if time.Since(lastLog) > time.Minute {
				lg.Info("stats", slog.Any("stats", stats.LogValue(lg)))
				lastLog = time.Now()
			}
		}
	}
}
