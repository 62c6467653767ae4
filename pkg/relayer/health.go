// Copyright 2025 Certen Protocol
//
// Health and metrics HTTP server. Grounded on main.go's HealthStatus type
// (status string, per-component tracking, uptime, JSON /health endpoint)
// slimmed to the one component this relayer actually has — the proof-cycle
// driver — plus a Prometheus /metrics endpoint, the natural home for the
// teacher's otherwise-unused prometheus/client_golang dependency in an
// always-on relayer process.
package relayer

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthStatus tracks the relayer's single dependency: whether its most
// recent proof cycle succeeded.
type HealthStatus struct {
	mu         sync.RWMutex
	status     string // "starting", "ok", "error"
	lastError  string
	cycleCount int64
	startTime  time.Time
}

// NewHealthStatus returns a HealthStatus in the "starting" state.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{status: "starting", startTime: time.Now()}
}

// RecordCycleSuccess marks the most recent proof cycle as having completed
// without error.
func (h *HealthStatus) RecordCycleSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = "ok"
	h.lastError = ""
	h.cycleCount++
}

// RecordCycleError marks the most recent proof cycle as having failed.
func (h *HealthStatus) RecordCycleError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = "error"
	h.lastError = err.Error()
}

type healthJSON struct {
	Status        string `json:"status"`
	LastError     string `json:"last_error,omitempty"`
	CycleCount    int64  `json:"cycle_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ServeHTTP implements http.Handler for the /health endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	body := healthJSON{
		Status:        h.status,
		LastError:     h.lastError,
		CycleCount:    h.cycleCount,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}
	h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if body.Status == "ok" || body.Status == "starting" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(body)
}

// Metrics holds the Prometheus counters/gauges the relayer exports.
type Metrics struct {
	CyclesTotal       prometheus.Counter
	CycleErrorsTotal  prometheus.Counter
	ClosedOrdersTotal prometheus.Counter
	LatestBlockNumber prometheus.Gauge
}

// NewMetrics registers the relayer's metrics against a fresh registry and
// returns both the Metrics handle and an http.Handler serving them.
func NewMetrics() (*Metrics, http.Handler) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		CyclesTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "untron_relayer_cycles_total",
			Help: "Total number of proof cycles run.",
		}),
		CycleErrorsTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "untron_relayer_cycle_errors_total",
			Help: "Total number of proof cycles that ended in a fatal state-transition error.",
		}),
		ClosedOrdersTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "untron_relayer_closed_orders_total",
			Help: "Total number of orders closed across all proof cycles.",
		}),
		LatestBlockNumber: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "untron_relayer_latest_block_number",
			Help: "Source-chain block number of the most recently finalized block.",
		}),
	}

	return m, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RecordCycle updates cycle-level counters after a proof cycle completes
// (closedOrders is ignored when err is non-nil).
func (m *Metrics) RecordCycle(closedOrders int, err error) {
	m.CyclesTotal.Inc()
	if err != nil {
		m.CycleErrorsTotal.Inc()
		return
	}
	m.ClosedOrdersTotal.Add(float64(closedOrders))
}
