package observability_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database"
	"github.com/gaborage/go-sqlmodel/logger"
	"github.com/gaborage/go-sqlmodel/observability"
)

func resetGlobals(t *testing.T) {
	t.Cleanup(func() {
		otel.SetTracerProvider(noop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
	})
}

func TestNewProviderNilConfig(t *testing.T) {
	_, err := observability.NewProvider(nil, logger.NewNop())
	require.ErrorIs(t, err, observability.ErrNilConfig)
}

func TestNewProviderDisabled(t *testing.T) {
	p, err := observability.NewProvider(&config.Config{}, logger.NewNop())
	require.NoError(t, err)

	_, span := p.TracerProvider().Tracer("t").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, p.ForceFlush(context.Background()))
	require.NoError(t, observability.Shutdown(p, 0))
}

func TestNewProviderInvalidProtocol(t *testing.T) {
	cfg := &config.Config{Observability: config.ObservabilityConfig{
		Enabled: true,
		Trace:   config.TraceConfig{Endpoint: "collector:4317", Protocol: "thrift"},
	}}

	_, err := observability.NewProvider(cfg, logger.NewNop())
	require.ErrorIs(t, err, observability.ErrInvalidProtocol)
}

func TestNewProviderOTLPExportersAreLazy(t *testing.T) {
	resetGlobals(t)
	cfg := &config.Config{Observability: config.ObservabilityConfig{
		Enabled: true,
		Trace:   config.TraceConfig{Endpoint: "localhost:4317", Protocol: observability.ProtocolGRPC, Insecure: true, Sample: 1},
		Metrics: config.MetricsConfig{Endpoint: "localhost:4318", Protocol: observability.ProtocolHTTP, Insecure: true},
	}}

	p, err := observability.NewProvider(cfg, logger.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, p.TracerProvider())
	assert.NotNil(t, p.MeterProvider())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = p.Shutdown(ctx)
}

func TestTrackedStatementsAreExported(t *testing.T) {
	resetGlobals(t)
	cfg := &config.Config{
		App: config.AppConfig{Name: "roster", Env: config.EnvDevelopment},
		Observability: config.ObservabilityConfig{
			Enabled: true,
			Trace:   config.TraceConfig{Endpoint: observability.EndpointStdout, Sample: 1},
			Metrics: config.MetricsConfig{Endpoint: observability.EndpointStdout},
		},
	}
	var out bytes.Buffer

	p, err := observability.NewProvider(cfg, logger.NewNop(), observability.WithWriter(&out))
	require.NoError(t, err)

	conn, err := database.NewConnection(&config.DatabaseConfig{Type: database.SQLite, Database: ":memory:"}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(context.Background(), "CREATE TABLE student (id INTEGER)")
	require.NoError(t, err)

	require.NoError(t, observability.Shutdown(p, time.Second))

	assert.Contains(t, out.String(), "CREATE TABLE student (id INTEGER)")
	assert.Contains(t, out.String(), "db.client.calls")
	assert.Contains(t, out.String(), "roster")
}
