package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "mm_messages_total", Help: "Pub/sub messages received"},
		[]string{"channel"},
	)
	MalformedMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "mm_malformed_messages_total", Help: "Pub/sub messages that were not valid JSON"},
		[]string{"channel"},
	)
	TradingTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "mm_trading_toggles_total", Help: "enable_trading updates written"},
		[]string{"symbol", "enabled"},
	)
)

func init() {
	prometheus.MustRegister(MessagesTotal, MalformedMessagesTotal, TradingTogglesTotal)
}

// Serve exposes /metrics on addr. An empty addr serves nothing and returns nil.
func Serve(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
