package tracking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "go-sqlmodel/database"

	metricDBCalls      = "db.client.calls"
	metricDBDuration   = "db.client.operation.duration"
	metricRowsAffected = "db.rows.affected"
)

// Metrics holds the instruments a tracked connection reports to. A nil
// *Metrics records nothing.
type Metrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
	rows     metric.Int64Counter
}

// NewMetrics creates instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	calls, err := meter.Int64Counter(metricDBCalls,
		metric.WithDescription("Total number of database client calls"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(metricDBDuration,
		metric.WithDescription("Duration of database operations in milliseconds"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	rows, err := meter.Int64Counter(metricRowsAffected,
		metric.WithDescription("Number of rows affected by database operations"))
	if err != nil {
		return nil, err
	}
	return &Metrics{calls: calls, duration: duration, rows: rows}, nil
}

func (m *Metrics) record(ctx context.Context, vendor, operation string, elapsed time.Duration, rowsAffected int64, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("db.system", normalizeDBVendor(vendor)),
		attribute.String("db.operation.name", operation),
		attribute.Bool("error", err != nil && !errors.Is(err, sql.ErrNoRows)),
	}
	set := metric.WithAttributes(attrs...)

	m.calls.Add(ctx, 1, set)
	m.duration.Record(ctx, float64(elapsed.Nanoseconds())/float64(time.Millisecond), set)
	if rowsAffected > 0 {
		m.rows.Add(ctx, rowsAffected, set)
	}
}
