package metrics

import "github.com/prometheus/client_golang/prometheus"

// NotifierMetrics counts reminder activity in the scheduled-call notifier.
type NotifierMetrics struct {
	fired  *prometheus.CounterVec
	errors prometheus.Counter
}

// NewNotifierMetrics registers the notifier metrics on the provided registerer.
func NewNotifierMetrics(reg prometheus.Registerer) *NotifierMetrics {
	if reg == nil {
		return &NotifierMetrics{}
	}
	fired := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminders_fired_total",
		Help: "Reminders published for scheduled calls, by timing offset.",
	}, []string{"timing"})
	errs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifier_errors_total",
		Help: "Errors encountered while scanning for due reminders.",
	})
	reg.MustRegister(fired, errs)
	return &NotifierMetrics{fired: fired, errors: errs}
}

// IncFired increments the fired counter for the given timing offset.
func (n *NotifierMetrics) IncFired(timing string) {
	if n == nil || n.fired == nil {
		return
	}
	n.fired.WithLabelValues(normalizeLabel(timing)).Inc()
}

// IncError increments the scan error counter.
func (n *NotifierMetrics) IncError() {
	if n == nil || n.errors == nil {
		return
	}
	n.errors.Inc()
}
