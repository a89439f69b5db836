package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts migration outcomes. A nil *Metrics records nothing.
type Metrics struct {
	statements *prometheus.CounterVec
	users      *prometheus.CounterVec
	trees      *prometheus.CounterVec
	extras     *prometheus.CounterVec
	nodes      prometheus.Counter
	edges      prometheus.Counter
}

// NewMetrics registers the collectors on reg. A nil reg yields working but
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		statements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "liveforever_migrate",
			Name:      "dump_statements_total",
			Help:      "Legacy dump statements by execution result.",
		}, []string{"result"}),
		users: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "liveforever_migrate",
			Name:      "users_total",
			Help:      "Legacy persons processed into users by status.",
		}, []string{"status"}),
		trees: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "liveforever_migrate",
			Name:      "trees_total",
			Help:      "Legacy trees processed by status.",
		}, []string{"status"}),
		extras: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "liveforever_migrate",
			Name:      "extra_records_total",
			Help:      "Complete-scope records by kind and status.",
		}, []string{"kind", "status"}),
		nodes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "liveforever_migrate",
			Name:      "nodes_created_total",
			Help:      "Family tree nodes created.",
		}),
		edges: f.NewCounter(prometheus.CounterOpts{
			Namespace: "liveforever_migrate",
			Name:      "edges_created_total",
			Help:      "Inferred family tree edges created.",
		}),
	}
}

func (m *Metrics) statement(result string) {
	if m == nil {
		return
	}
	m.statements.WithLabelValues(result).Inc()
}

func (m *Metrics) user(status Status) {
	if m == nil {
		return
	}
	m.users.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) tree(status Status) {
	if m == nil {
		return
	}
	m.trees.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) extra(kind string, status Status) {
	if m == nil {
		return
	}
	m.extras.WithLabelValues(kind, string(status)).Inc()
}

func (m *Metrics) nodeCreated() {
	if m == nil {
		return
	}
	m.nodes.Inc()
}

func (m *Metrics) edgeCreated() {
	if m == nil {
		return
	}
	m.edges.Inc()
}
