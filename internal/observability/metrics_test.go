package observability_test

import (
	"context"
	"errors"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/aelexs/phonekit/internal/observability"
	"github.com/aelexs/phonekit/pkg/metadata"
)

func TestInitMetrics_NoEndpoint(t *testing.T) {
	cfg := observability.MetricsConfig{
		ServiceName:    "test-service",
		ServiceVersion: "0.0.1",
		Environment:    "test",
	}

	mp, err := observability.InitMetrics(context.Background(), cfg)

	require.NoError(t, err)
	require.NotNil(t, mp)
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_ShutdownNilProvider(t *testing.T) {
	mp := &observability.MetricsProvider{}

	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetadataLoadHook(t *testing.T) {
	var loaded []string
	count := observability.MetadataLoadHook()
	hook := func(key string) {
		count(key)
		loaded = append(loaded, key)
	}

	p := metadata.NewFSProvider(metadata.EmbeddedFS(), metadata.DefaultIndex(), metadata.WithLoadHook(hook))
	r, err := p.Region("GB")
	require.NoError(t, err)
	require.NotNil(t, r)

	_, err = p.Region("GB")
	require.NoError(t, err)

	assert.Equal(t, []string{"region:GB"}, loaded)
}

// failingMeter refuses to create instruments.
type failingMeter struct{ noop.Meter }

func (failingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errors.New("meter closed")
}

func TestNewInt64Counter(t *testing.T) {
	t.Run("records on the given meter", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

		c := observability.NewInt64Counter(provider.Meter("test"), "test_total", "Test events")
		c.Add(context.Background(), 3)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))
		require.Len(t, rm.ScopeMetrics, 1)
		require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
		got := rm.ScopeMetrics[0].Metrics[0]
		assert.Equal(t, "test_total", got.Name)
		assert.Equal(t, "Test events", got.Description)
		sum, ok := got.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, sum.DataPoints, 1)
		assert.Equal(t, int64(3), sum.DataPoints[0].Value)
	})

	t.Run("creation errors reach the otel error handler", func(t *testing.T) {
		var (
			mu      sync.Mutex
			handled []error
		)
		otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
			mu.Lock()
			defer mu.Unlock()
			handled = append(handled, err)
		}))
		t.Cleanup(func() {
			otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) { log.Print(err) }))
		})

		c := observability.NewInt64Counter(failingMeter{}, "broken_total", "Never created")

		require.NotNil(t, c)
		assert.NotPanics(t, func() { c.Add(context.Background(), 1) })
		mu.Lock()
		defer mu.Unlock()
		require.Len(t, handled, 1)
		assert.ErrorContains(t, handled[0], "broken_total")
		assert.ErrorContains(t, handled[0], "meter closed")
	})
}
