package instrumentation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
	require.NoError(t, err)
	require.NotNil(t, provider)

	assert.False(t, provider.Enabled())
	assert.NotNil(t, provider.Metrics(), "metrics should be a no-op recorder when disabled")
	assert.Error(t, provider.WriteTextfile(filepath.Join(t.TempDir(), "metrics.prom")))
	assert.NotNil(t, provider.Tracer("test"))

	// Recording on the no-op recorder must not panic.
	provider.Metrics().RecordAgendaEntries(context.Background(), "scheduled", 3)

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_PrometheusExporter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	assert.True(t, provider.Enabled())
	assert.NotNil(t, provider.Metrics())
	assert.NoError(t, provider.WriteTextfile(filepath.Join(t.TempDir(), "metrics.prom")))
	assert.NotNil(t, provider.Tracer("test"))
}

func TestNewProvider_StdoutExporters(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:       "test-service",
		ServiceVersion:    "1.0.0",
		Enabled:           true,
		MetricsExporter:   ExporterStdout,
		TracingExporter:   ExporterStdout,
		TraceSamplingRate: 1.0,
	})
	require.NoError(t, err)

	assert.Error(t, provider.WriteTextfile(filepath.Join(t.TempDir(), "metrics.prom")))
	assert.NoError(t, provider.Shutdown(ctx))
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "unknown metrics exporter",
			config: Config{Enabled: true, MetricsExporter: "carrier-pigeon", TracingExporter: ExporterNone},
		},
		{
			name:   "otlp metrics without endpoint",
			config: Config{Enabled: true, MetricsExporter: ExporterOTLP, TracingExporter: ExporterNone},
		},
		{
			name:   "otlp tracing without endpoint",
			config: Config{Enabled: true, MetricsExporter: ExporterPrometheus, TracingExporter: ExporterOTLP},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), tt.config)
			assert.Error(t, err)
		})
	}
}

func TestProvider_ShutdownWritesTextfile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	path := filepath.Join(t.TempDir(), "agenda.prom")
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		MetricsTextfile: path,
		TracingExporter: ExporterNone,
	})
	require.NoError(t, err)

	provider.Metrics().RecordAgendaEntries(ctx, "break", 2)
	provider.Metrics().RecordGoogleAPIOperation(ctx, ServiceCalendar, OperationList, StatusSuccess, 120*time.Millisecond)

	require.NoError(t, provider.Shutdown(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "agenda_entries")
	assert.Contains(t, string(data), "google_api_operations")
	assert.Contains(t, string(data), `kind="break"`)
}
