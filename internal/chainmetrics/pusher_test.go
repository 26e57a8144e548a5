package chainmetrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/snappy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/prometheus/prompb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teleretail/salespoint/internal/config"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/protoadapt"
)

func seededRegistry(t *testing.T) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	rec := &recorder{metrics: newMetrics(registry), store: "oslo-01"}
	rec.RecordOrderRegistered()
	rec.RecordOrderRegistered()
	rec.RecordDealsServed()
	rec.RecordCodeGenFailure("")
	rec.SetCatalogSize("phones", 42)
	return registry
}

func TestRemoteWritePush(t *testing.T) {
	var got prompb.WriteRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "snappy", r.Header.Get("Content-Encoding"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		raw, err := snappy.Decode(nil, body)
		require.NoError(t, err)
		require.NoError(t, proto.Unmarshal(raw, protoadapt.MessageV2Of(&got)))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := NewRemoteWritePusher(srv.URL, "secret")
	require.NoError(t, p.Push(context.Background(), seededRegistry(t)))

	assert.Equal(t, "Bearer secret", auth)
	require.NotEmpty(t, got.Timeseries)

	byName := map[string]prompb.TimeSeries{}
	for _, ts := range got.Timeseries {
		for _, l := range ts.Labels {
			if l.Name == "__name__" {
				byName[l.Value] = ts
			}
		}
	}

	orders, ok := byName["salespoint_orders_registered_total"]
	require.True(t, ok)
	assert.Equal(t, float64(2), orders.Samples[0].Value)

	catalog, ok := byName["salespoint_catalog_size"]
	require.True(t, ok)
	assert.Equal(t, float64(42), catalog.Samples[0].Value)

	// Empty reasons normalize rather than producing a blank label.
	failures, ok := byName["salespoint_contract_code_failures_total"]
	require.True(t, ok)
	var reason string
	for _, l := range failures.Labels {
		if l.Name == "reason" {
			reason = l.Value
		}
	}
	assert.Equal(t, "unknown", reason)
}

func TestRemoteWritePush_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewRemoteWritePusher(srv.URL, "")
	err := p.Push(context.Background(), seededRegistry(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func configWith(enabled bool, endpoint string) config.Config {
	return config.Config{
		AppName: "salespoint",
		ChainMetrics: config.ChainMetricsConfig{
			Enabled:  enabled,
			Endpoint: endpoint,
		},
	}
}

func TestNewPusher_DisabledConfigs(t *testing.T) {
	assert.Nil(t, NewPusher(configWith(false, "http://push.example"), nil))
	assert.Nil(t, NewPusher(configWith(true, ""), nil))
	assert.Nil(t, NewPusher(configWith(true, "::bad::"), nil))
	assert.NotNil(t, NewPusher(configWith(true, "http://push.example/api/v1/write"), nil))
}
