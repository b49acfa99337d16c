package bot

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors shared by the components of a bot.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	messages    *prometheus.CounterVec
	reminders   *prometheus.CounterVec
	completions *prometheus.CounterVec
}

// NewMetrics registers the bot collectors with reg. Every bot gets its own
// registry, so collector names don't clash between bots.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_handled_total",
			Help:      "Inbound chat messages by domain and outcome.",
		}, []string{"domain", "outcome"}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_total",
			Help:      "Reminder deliveries by status.",
		}, []string{"status"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_completions_total",
			Help:      "Language service completions by status.",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{m.messages, m.reminders, m.completions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) MessageHandled(domain, outcome string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(domain, outcome).Inc()
}

func (m *Metrics) Reminder(status string) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(status).Inc()
}

func (m *Metrics) Completion(status string) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(status).Inc()
}
