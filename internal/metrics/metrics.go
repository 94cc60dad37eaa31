// Package metrics exposes Prometheus instrumentation for rollout
// execution.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the rollout collectors. A nil *Metrics is valid and
// records nothing, so instrumentation points never need guarding.
type Metrics struct {
	stepsApplied  *prometheus.CounterVec
	rollouts      *prometheus.CounterVec
	trafficWeight *prometheus.GaugeVec
}

// Rollout outcome label values.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// New builds and registers the rollout collectors. A nil registerer uses
// the process-wide default registry; collectors already registered there
// are adopted rather than duplicated.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		stepsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modeldeploy",
			Subsystem: "rollout",
			Name:      "steps_applied_total",
			Help:      "Count of routing tables applied to serving endpoints",
		}, []string{"endpoint"}),
		rollouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modeldeploy",
			Subsystem: "rollout",
			Name:      "completed_total",
			Help:      "Count of finished rollouts by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		trafficWeight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "modeldeploy",
			Subsystem: "rollout",
			Name:      "variant_traffic_weight",
			Help:      "Last applied traffic weight per variant",
		}, []string{"endpoint", "variant"}),
	}
	m.stepsApplied = registerCounterVec(reg, m.stepsApplied)
	m.rollouts = registerCounterVec(reg, m.rollouts)
	m.trafficWeight = registerGaugeVec(reg, m.trafficWeight)
	return m
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	return c
}

func registerGaugeVec(reg prometheus.Registerer, g *prometheus.GaugeVec) *prometheus.GaugeVec {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.GaugeVec)
		}
	}
	return g
}

// RecordStep counts one routing table applied to an endpoint.
func (m *Metrics) RecordStep(endpoint string) {
	if m == nil {
		return
	}
	m.stepsApplied.WithLabelValues(endpoint).Inc()
}

// RecordRollout counts one finished rollout.
func (m *Metrics) RecordRollout(strategy, outcome string) {
	if m == nil {
		return
	}
	m.rollouts.WithLabelValues(strategy, outcome).Inc()
}

// SetTrafficWeight records the last applied weight for a variant.
func (m *Metrics) SetTrafficWeight(endpoint, variant string, weight float64) {
	if m == nil {
		return
	}
	m.trafficWeight.WithLabelValues(endpoint, variant).Set(weight)
}
