package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portal", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	OverrideFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal", Name: "override_fallbacks_total",
			Help: "Catalog listings served without property overrides because the override query failed.",
		},
		[]string{"kind"},
	)
	BonusTransactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "bonus_transactions_total", Help: "Appended bonus transactions."},
		[]string{"direction"}, // earn|spend
	)
	LedgerDiscrepancies = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "portal", Name: "ledger_discrepancies_total", Help: "Ledger rows with an inconsistent running balance."},
	)
)

// Serve starts a standalone metrics listener on addr; empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, CacheEvents, OverrideFallbacks, BonusTransactions, LedgerDiscrepancies)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveOverrideFallback(kind string) {
	OverrideFallbacks.WithLabelValues(kind).Inc()
}

func ObserveBonusTransaction(amount int64) {
	dir := "earn"
	if amount < 0 {
		dir = "spend"
	}
	BonusTransactions.WithLabelValues(dir).Inc()
}

func ObserveLedgerDiscrepancies(n int) {
	LedgerDiscrepancies.Add(float64(n))
}
