package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ReferenceAllocated = "allocated"
	ReferenceConflict  = "conflict"
	ReferenceExhausted = "exhausted"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payroll_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	referenceAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_payment_reference_attempts_total",
		Help: "Payment reference allocation attempts by outcome",
	}, []string{"outcome"})

	ledgerEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_ledger_events_total",
		Help: "Committed payment ledger writes by event type",
	}, []string{"event"})

	ledgerAmountUSD = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_payments_recorded_usd_total",
		Help: "Sum of USD amounts of recorded payments",
	})

	currencyCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_currency_cache_lookups_total",
		Help: "Exchange rate cache lookups by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveReferenceAttempt counts one pass of the reference allocation loop.
func ObserveReferenceAttempt(outcome string) {
	referenceAttempts.WithLabelValues(outcome).Inc()
}

func ObserveLedgerEvent(eventType string, amountUSD float64) {
	ledgerEvents.WithLabelValues(eventType).Inc()
	if amountUSD > 0 {
		ledgerAmountUSD.Add(amountUSD)
	}
}

func ObserveCurrencyCache(hit bool) {
	if hit {
		currencyCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	currencyCacheLookups.WithLabelValues("miss").Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
