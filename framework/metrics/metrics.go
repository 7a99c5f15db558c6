// Package metrics exposes Prometheus counters for container resolutions.
//
// Wire it to a container once and mount the handler:
//
//	m := metrics.New(prometheus.NewRegistry())
//	c.AfterResolving(m.Observe)
//	router.Get("/metrics", m.Handler())
package metrics

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-inject/framework/container"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeCyclic   = "cyclic"
	OutcomeIllegal  = "illegal"
	OutcomeError    = "error"
)

// Resolutions counts every provider call the container makes, root keys and
// nested dependencies alike.
type Resolutions struct {
	registry *prometheus.Registry
	total    *prometheus.CounterVec
}

// New registers the resolution counter and the Go runtime collectors on reg.
func New(reg *prometheus.Registry) *Resolutions {
	total := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goinject",
			Subsystem: "container",
			Name:      "resolutions_total",
			Help:      "Total number of container resolutions by key and outcome.",
		},
		[]string{"key", "outcome"},
	)
	reg.MustRegister(
		total,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Resolutions{registry: reg, total: total}
}

// Observe has the signature of a container.AfterResolving callback.
func (m *Resolutions) Observe(key reflect.Type, _ any, err error) {
	m.total.WithLabelValues(key.String(), Outcome(err)).Inc()
}

// Counter returns the underlying counter vector.
func (m *Resolutions) Counter() *prometheus.CounterVec { return m.total }

// Handler exposes the registry in the Prometheus text and OpenMetrics formats.
func (m *Resolutions) Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// Outcome maps a resolution error to its label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, container.ErrCyclicDependency):
		return OutcomeCyclic
	case errors.Is(err, container.ErrDependencyNotFound), errors.Is(err, container.ErrNotBound):
		return OutcomeNotFound
	case errors.Is(err, container.ErrIllegalComponent):
		return OutcomeIllegal
	default:
		return OutcomeError
	}
}
