package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// OtlpConnConfig points one signal at a collector. grpc wins when both
// endpoints are set.
type OtlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (c OtlpConnConfig) log(signal string) {
	kind := "http"
	endpoint := c.HttpEndpoint
	if c.GrpcEndpoint != "" {
		kind = "grpc"
		endpoint = c.GrpcEndpoint
	}
	slog.Info(
		"otlp exporter initialized",
		"signal", signal,
		"type", kind,
		"endpoint", endpoint,
		"headers", len(c.Headers) > 0,
	)
}

type OtlpConfig struct {
	Traces  OtlpConnConfig `json:"traces"`
	Metrics OtlpConnConfig `json:"metrics"`
}

type Config struct {
	Otlp OtlpConfig `json:"otlp"`
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, conn OtlpConnConfig) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()
	conn.log("traces")

	var exporter trace.SpanExporter
	var err error
	if conn.GrpcEndpoint != "" {
		exporter, err = otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(conn.GrpcEndpoint),
			otlptracegrpc.WithHeaders(conn.Headers),
		)
	} else {
		exporter, err = otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(conn.HttpEndpoint),
			otlptracehttp.WithHeaders(conn.Headers),
		)
	}
	if err != nil {
		return nil, err
	}

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func newMetricProvider(ctx context.Context, r *resource.Resource, conn OtlpConnConfig) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()
	conn.log("metrics")

	var exporter metric.Exporter
	var err error
	if conn.GrpcEndpoint != "" {
		exporter, err = otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(conn.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(conn.Headers),
		)
	} else {
		exporter, err = otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpointURL(conn.HttpEndpoint),
			otlpmetrichttp.WithHeaders(conn.Headers),
		)
	}
	if err != nil {
		return nil, err
	}

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(time.Second*5))),
		metric.WithResource(r),
	), nil
}
