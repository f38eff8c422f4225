// Package telemetry exports tracker activity as OTEL metrics.
package telemetry

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/hpungsan/avrora/internal/activity"
)

const serviceName = "avrora"

// Recorder observes tracker events and must be closed on shutdown.
type Recorder interface {
	SessionClosed(ctx context.Context, s activity.Session, recordErr error)
	SampleFailed(ctx context.Context, err error)
	Close(ctx context.Context) error
}

// Exporter exports session metrics to an OTEL Collector.
type Exporter struct {
	provider       *sdkmetric.MeterProvider
	sessionsTotal  metric.Int64Counter
	focusTotal     metric.Int64Counter
	durationHist   metric.Float64Histogram
	recordFailures metric.Int64Counter
	sampleFailures metric.Int64Counter
}

// New returns an OTLP exporter when cfg enables one, and a NoOp otherwise.
func New(ctx context.Context, cfg Config, version string) (Recorder, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return NoOp{}, nil
	}
	return NewExporter(ctx, cfg, version)
}

// NewExporter creates a new OTEL metrics exporter pushing over gRPC.
func NewExporter(ctx context.Context, cfg Config, version string) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	e, err := newWithReader(ctx, sdkmetric.NewPeriodicReader(exp), version)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(e.provider)
	return e, nil
}

// newWithReader builds the instruments over an arbitrary reader.
func newWithReader(ctx context.Context, reader sdkmetric.Reader, version string) (*Exporter, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	meter := provider.Meter(serviceName)

	sessionsTotal, err := meter.Int64Counter(
		"avrora_sessions_total",
		metric.WithDescription("Finalized activity sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	focusTotal, err := meter.Int64Counter(
		"avrora_focus_time_ms_total",
		metric.WithDescription("Focused time per category"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating focus counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"avrora_session_duration_seconds",
		metric.WithDescription("Session duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	recordFailures, err := meter.Int64Counter(
		"avrora_record_failures_total",
		metric.WithDescription("Sessions the store failed to persist"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating record failures counter: %w", err)
	}

	sampleFailures, err := meter.Int64Counter(
		"avrora_sample_failures_total",
		metric.WithDescription("Ticks skipped because the foreground sampler failed"),
		metric.WithUnit("{tick}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sample failures counter: %w", err)
	}

	return &Exporter{
		provider:       provider,
		sessionsTotal:  sessionsTotal,
		focusTotal:     focusTotal,
		durationHist:   durationHist,
		recordFailures: recordFailures,
		sampleFailures: sampleFailures,
	}, nil
}

// SessionClosed records a finalized session.
func (e *Exporter) SessionClosed(ctx context.Context, s activity.Session, recordErr error) {
	opt := metric.WithAttributes(
		attribute.String("category", string(s.Category)),
		attribute.Bool("productive", s.Category.IsProductive()),
	)

	e.sessionsTotal.Add(ctx, 1, opt)
	e.focusTotal.Add(ctx, s.DurationMs, opt)
	e.durationHist.Record(ctx, float64(s.DurationMs)/1000, opt)

	if recordErr != nil {
		e.recordFailures.Add(ctx, 1)
	}
}

// SampleFailed counts a skipped tick.
func (e *Exporter) SampleFailed(ctx context.Context, err error) {
	reason := "unavailable"
	if stderrors.Is(err, context.DeadlineExceeded) {
		reason = "timeout"
	}
	e.sampleFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
