package sio

import (
	"errors"

	"github.com/Comcast/wfsm/core"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what FSMs do.
type Metrics struct {
	Events      *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Images      *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
}

// NewMetrics makes Metrics and registers them with the given
// Registerer (if any).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wfsm_events_total",
				Help: "Events delivered to FSMs",
			},
			[]string{"widget", "type"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wfsm_transitions_total",
				Help: "Transitions taken",
			},
			[]string{"widget", "from", "to"},
		),
		Images: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wfsm_image_changes_total",
				Help: "Region image changes",
			},
			[]string{"widget"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wfsm_errors_total",
				Help: "Errors reported while acting on events",
			},
			[]string{"widget"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wfsm_dispatch_seconds",
				Help:    "Time to act on an event",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"widget"},
		),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.Events, err = register(reg, m.Events); err != nil {
		return nil, err
	}
	if m.Transitions, err = register(reg, m.Transitions); err != nil {
		return nil, err
	}
	if m.Images, err = register(reg, m.Images); err != nil {
		return nil, err
	}
	if m.Errors, err = register(reg, m.Errors); err != nil {
		return nil, err
	}
	if m.Latency, err = register(reg, m.Latency); err != nil {
		return nil, err
	}

	return m, nil
}

// register registers the collector or returns the equivalent one
// that's already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, is := are.ExistingCollector.(C); is {
			return existing, nil
		}
	}
	return c, err
}

// Observe records the Effects of an event delivered to the named
// widget.  A nil Metrics does nothing.
func (m *Metrics) Observe(widget string, fx *core.Effects) {
	if m == nil || fx == nil {
		return
	}
	m.Events.WithLabelValues(widget, string(fx.Event)).Inc()
	if fx.Matched {
		m.Transitions.WithLabelValues(widget, fx.From, fx.To).Inc()
	}
	if n := len(fx.Images); 0 < n {
		m.Images.WithLabelValues(widget).Add(float64(n))
	}
	if n := len(fx.Errors); 0 < n {
		m.Errors.WithLabelValues(widget).Add(float64(n))
	}
	m.Latency.WithLabelValues(widget).Observe(fx.Elapsed.Seconds())
}

// ConfigErrors records an FSM's configuration errors.
func (m *Metrics) ConfigErrors(widget string, fsm *core.FSM) {
	if m == nil || fsm == nil {
		return
	}
	if n := len(fsm.ConfigErrors()); 0 < n {
		m.Errors.WithLabelValues(widget).Add(float64(n))
	}
}
