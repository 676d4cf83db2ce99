package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TokenMetrics defines the interface for recording token operation metrics.
// Implementations track issue and verification counts plus operation durations.
type TokenMetrics interface {
	// RecordIssue records a token issue attempt with its status.
	// Status examples: "success", "error"
	RecordIssue(ctx context.Context, status string)

	// RecordVerification records a token verification attempt with its status.
	// Status examples: "success", "rejected"
	RecordVerification(ctx context.Context, status string)

	// RecordDuration records the duration of a token operation with its status.
	// Duration is recorded in seconds as a histogram for percentile calculations.
	RecordDuration(ctx context.Context, operation string, duration time.Duration, status string)
}

// tokenMetrics implements TokenMetrics using OpenTelemetry metrics.
type tokenMetrics struct {
	issueCounter  metric.Int64Counter
	verifyCounter metric.Int64Counter
	durationHisto metric.Float64Histogram
}

// NewTokenMetrics creates a TokenMetrics implementation using the provided meter provider.
// The namespace parameter is used as a prefix for all metric names.
// Returns error if meters cannot be initialized.
func NewTokenMetrics(meterProvider metric.MeterProvider, namespace string) (TokenMetrics, error) {
	meter := meterProvider.Meter(namespace)

	issueCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_tokens_issued_total", namespace),
		metric.WithDescription("Total number of token issue attempts"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue counter: %w", err)
	}

	verifyCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_tokens_verified_total", namespace),
		metric.WithDescription("Total number of token verification attempts"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create verify counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_token_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of token operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &tokenMetrics{
		issueCounter:  issueCounter,
		verifyCounter: verifyCounter,
		durationHisto: durationHisto,
	}, nil
}

// RecordIssue increments the issue counter with a status label.
func (t *tokenMetrics) RecordIssue(ctx context.Context, status string) {
	t.issueCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

// RecordVerification increments the verification counter with a status label.
func (t *tokenMetrics) RecordVerification(ctx context.Context, status string) {
	t.verifyCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

// RecordDuration records the operation duration in seconds with operation and status labels.
func (t *tokenMetrics) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	t.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// NoOpTokenMetrics is a no-op implementation of TokenMetrics for when metrics are disabled.
type NoOpTokenMetrics struct{}

// NewNoOpTokenMetrics creates a no-op TokenMetrics implementation.
func NewNoOpTokenMetrics() TokenMetrics {
	return &NoOpTokenMetrics{}
}

// RecordIssue does nothing when metrics are disabled.
func (n *NoOpTokenMetrics) RecordIssue(ctx context.Context, status string) {
	// No-op
}

// RecordVerification does nothing when metrics are disabled.
func (n *NoOpTokenMetrics) RecordVerification(ctx context.Context, status string) {
	// No-op
}

// RecordDuration does nothing when metrics are disabled.
func (n *NoOpTokenMetrics) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	// No-op
}
