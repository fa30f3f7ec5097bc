package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/drewzambelli/wtml/lib/configutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	errlist := []error{}
	if t.TracerProvider != nil {
		err := t.TracerProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	if t.MeterProvider != nil {
		err := t.MeterProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

var setupTestEnvironments = map[string]bool{}

// sets up telemetry in a testing environment, ensuring that it isn't
// set up more than once
func SetupForTesting(t testing.TB, serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)
	tel, err := SetupFromEnv(context.Background(), serviceName)
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}

// searches up the filesystem from the cwd to find a file
// called telemetry.json5, once found it will then use it
// as a config to setup telemetry. scrape jobs run fine without
// one, export is simply disabled.
func SetupFromEnv(ctx context.Context, serviceName string) (Telemetry, error) {
	config, err := configutil.ReadRecursively[Config]("telemetry.json5")
	if os.IsNotExist(err) {
		slog.Debug("no telemetry.json5 found, otel export disabled")
		return Telemetry{}, nil
	}
	if err != nil {
		return Telemetry{}, err
	}
	return Setup(ctx, serviceName, config)
}

func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return Telemetry{}, err
	}

	tracerProvider, err := newTraceProvider(ctx, r, config.Otlp.Traces)
	if err != nil {
		return Telemetry{}, err
	}
	otel.SetTracerProvider(tracerProvider)

	meterProvider, err := newMetricProvider(ctx, r, config.Otlp.Metrics)
	if err != nil {
		return Telemetry{}, err
	}
	otel.SetMeterProvider(meterProvider)

	return Telemetry{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}, nil
}
