package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("wtml.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// InstrumentPerfStats samples process stats for the lifetime of ctx.
// a full scrape holds the process open for hours, the gauges make it
// possible to tell a stuck run from a slow one.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second * 30)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				samplePerfStats(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func samplePerfStats(ctx context.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	memoryGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
	liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
	goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))

	cpuUsage, err := cpu.Percent(time.Minute, false)
	if err != nil {
		slog.Warn("failed to read cpu usage", "err", err)
		return
	}
	cpuGauge.Record(ctx, cpuUsage[0])
}
