package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const perfStatsInterval = time.Second * 30

type perfStats struct {
	cpu         metric.Float64Gauge
	allocatedMb metric.Int64Gauge
	liveObjects metric.Int64Gauge
	goroutines  metric.Int64Gauge
}

func newPerfStats(meter metric.Meter) (perfStats, error) {
	var stats perfStats
	var err error
	if stats.cpu, err = meter.Float64Gauge("cpu_usage"); err != nil {
		return stats, err
	}
	if stats.allocatedMb, err = meter.Int64Gauge("allocated_mb"); err != nil {
		return stats, err
	}
	if stats.liveObjects, err = meter.Int64Gauge("live_objects"); err != nil {
		return stats, err
	}
	if stats.goroutines, err = meter.Int64Gauge("goroutine_count"); err != nil {
		return stats, err
	}
	return stats, nil
}

// record takes one sample, cpuPercent blocks for as long as it measures.
func (p perfStats) record(ctx context.Context, cpuPercent func() ([]float64, error)) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	usage, err := cpuPercent()
	if err == nil && len(usage) > 0 {
		p.cpu.Record(ctx, usage[0])
	} else if err != nil {
		slog.Warn("failed to read cpu usage", "err", err)
	}

	p.allocatedMb.Record(ctx, int64(memStats.Alloc/1_000_000))
	p.liveObjects.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
	p.goroutines.Record(ctx, int64(runtime.NumGoroutine()))
}

// InstrumentPerfStats samples process cpu, memory and goroutine counts into
// gauges until ctx is done.
func InstrumentPerfStats(ctx context.Context) {
	stats, err := newPerfStats(otel.Meter("stihirus-reader/perf_stats"))
	if err != nil {
		slog.Warn("failed to create perf stats gauges", "err", err)
		return
	}
	cpuPercent := func() ([]float64, error) {
		return cpu.PercentWithContext(ctx, time.Minute, false)
	}

	go func() {
		ticker := time.NewTicker(perfStatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stats.record(ctx, cpuPercent)
			case <-ctx.Done():
				return
			}
		}
	}()
}
