// Package metrics exposes Prometheus collectors for RPC calls, hook
// dispatch and landed cost distribution.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tnerp"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing,
// so callers never need to check whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec

	hookFires    *prometheus.CounterVec
	chargesTotal *prometheus.CounterVec

	coaAccounts *prometheus.CounterVec
}

// New creates collectors registered on a fresh registry, together with the
// Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC requests by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		hookFires: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hook_fires_total",
			Help:      "Document hook executions by doctype, event and outcome.",
		}, []string{"doctype", "event", "outcome"}),
		chargesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "landed_cost_charges_total",
			Help:      "Landed cost charges processed, by outcome.",
		}, []string{"outcome"}),
		coaAccounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coa_accounts_total",
			Help:      "Chart of accounts rows processed by import result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcRequests,
		m.rpcDuration,
		m.hookFires,
		m.chargesTotal,
		m.coaAccounts,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRPC records one RPC with its result code and latency.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// HookFired records one hook execution. outcome is "ok", "rejected" or "error".
func (m *Metrics) HookFired(doctype, event, outcome string) {
	if m == nil {
		return
	}
	m.hookFires.WithLabelValues(doctype, event, outcome).Inc()
}

// ChargesDistributed records applied and skipped charges of one run.
func (m *Metrics) ChargesDistributed(applied, skipped int) {
	if m == nil {
		return
	}
	m.chargesTotal.WithLabelValues("applied").Add(float64(applied))
	m.chargesTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// AccountsImported records the results of one chart import.
func (m *Metrics) AccountsImported(created, existing, skipped, failed int) {
	if m == nil {
		return
	}
	m.coaAccounts.WithLabelValues("created").Add(float64(created))
	m.coaAccounts.WithLabelValues("existing").Add(float64(existing))
	m.coaAccounts.WithLabelValues("skipped").Add(float64(skipped))
	m.coaAccounts.WithLabelValues("failed").Add(float64(failed))
}
