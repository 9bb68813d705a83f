// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional, opt-in Prometheus counter set. A nil [*Metrics]
// makes every recording method a no-op, so embedding this package
// without metrics never touches Prometheus at all.
//
// Unlike a package relying on the global default registry, Metrics
// registers against a caller-supplied [*prometheus.Registry], so
// constructing this package twice in one process (e.g. in tests) never
// panics on duplicate registration.
type Metrics struct {
	requestsTotal  *prometheus.CounterVec
	retriesTotal   prometheus.Counter
	deadNodesTotal prometheus.Counter
	sniffTotal     *prometheus.CounterVec
}

// NewMetrics registers the ctransport counters against registry and
// returns a [*Metrics] ready to pass as [Config.Metrics]. Passing a nil
// registry returns nil, a convenient way to keep metrics optional at
// call sites.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		return nil
	}
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ctransport_requests_total",
			Help: "Total number of calls executed by the Request Pipeline, labeled by outcome.",
		}, []string{"outcome"}),
		retriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ctransport_retries_total",
			Help: "Total number of failover retries across all calls.",
		}),
		deadNodesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ctransport_dead_nodes_total",
			Help: "Total number of times a node was marked dead.",
		}),
		sniffTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ctransport_sniff_total",
			Help: "Total number of sniff attempts, labeled by outcome.",
		}, []string{"outcome"}),
	}
	registry.MustRegister(m.requestsTotal, m.retriesTotal, m.deadNodesTotal, m.sniffTotal)
	return m
}

func (m *Metrics) recordRequest(success bool) {
	if m == nil {
		return
	}
	if success {
		m.requestsTotal.WithLabelValues("success").Inc()
	} else {
		m.requestsTotal.WithLabelValues("failure").Inc()
	}
}

func (m *Metrics) recordRetry() {
	if m == nil {
		return
	}
	m.retriesTotal.Inc()
}

func (m *Metrics) recordDeadNode() {
	if m == nil {
		return
	}
	m.deadNodesTotal.Inc()
}

func (m *Metrics) recordSniff(success bool) {
	if m == nil {
		return
	}
	if success {
		m.sniffTotal.WithLabelValues("success").Inc()
	} else {
		m.sniffTotal.WithLabelValues("failure").Inc()
	}
}
