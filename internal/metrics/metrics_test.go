package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeDisabled(t *testing.T) {
	assert.Nil(t, Serve(""))
}

func TestServeRegistersMetrics(t *testing.T) {
	srv := Serve("127.0.0.1:0")
	require.NotNil(t, srv)
	defer srv.Close()

	MessagesTotal.WithLabelValues("mm_config").Inc()
	TradingTogglesTotal.WithLabelValues("BTC", "true").Inc()

	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["mm_messages_total"])
	assert.True(t, names["mm_trading_toggles_total"])

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `mm_trading_toggles_total{enabled="true",symbol="BTC"}`)
}
