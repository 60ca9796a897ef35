// Package metric wraps the prometheus counters the menu server exports.
package metric

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "menubar"

// IncrementalCounter counts occurrences, optionally split by label values.
type IncrementalCounter interface {
	Increment(val ...string)
}

// Counter is an IncrementalCounter backed by a prometheus CounterVec.
type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

// Increment adds one to the series identified by the label values.
func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// NewCounter registers a counter named menubar_<name> with reg. If an
// identical counter is already registered, the existing one is reused.
func NewCounter(reg prometheus.Registerer, name, help string, labels ...string) (*Counter, error) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	}, labels)

	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, fmt.Errorf("failed to register counter %s: %w", name, err)
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("collector %s is not a counter: %w", name, err)
		}
		vec = existing
	}

	return &Counter{
		Name: name,
		Help: help,
		vec:  vec,
	}, nil
}

// Nop discards increments.
type Nop struct{}

// Increment does nothing.
func (Nop) Increment(...string) {}

// Handler returns an HTTP handler serving the metrics gathered by reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
