package uciprotocol

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "uci"

// Metrics counts engine traffic and lifecycle transitions. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	CommandsSent  prometheus.Counter
	LinesRead     *prometheus.CounterVec // by stream
	EventsEmitted *prometheus.CounterVec // by event type
	ProcessStarts prometheus.Counter
	ProcessExits  *prometheus.CounterVec // by how the process ended
	Running       prometheus.Gauge
}

// NewMetrics creates the engine metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		CommandsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "commands_sent_total",
			Help:      "Command lines written to the engine",
		}),
		LinesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "lines_read_total",
			Help:      "Lines read from the engine by stream",
		}, []string{"stream"}),
		EventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_emitted_total",
			Help:      "Events delivered to the sink by type",
		}, []string{"type"}),
		ProcessStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "process_starts_total",
			Help:      "Engine processes spawned",
		}),
		ProcessExits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "process_exits_total",
			Help:      "Engine process exits by mode (graceful, forced, unexpected)",
		}, []string{"mode"}),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "engine_running",
			Help:      "1 while an engine process is alive",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.CommandsSent, m.LinesRead, m.EventsEmitted, m.ProcessStarts, m.ProcessExits, m.Running,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) commandSent() {
	if m != nil {
		m.CommandsSent.Inc()
	}
}

func (m *Metrics) lineRead(stream string) {
	if m != nil {
		m.LinesRead.WithLabelValues(stream).Inc()
	}
}

func (m *Metrics) eventEmitted(t EventType) {
	if m != nil {
		m.EventsEmitted.WithLabelValues(t.String()).Inc()
	}
}

func (m *Metrics) processStarted() {
	if m != nil {
		m.ProcessStarts.Inc()
		m.Running.Set(1)
	}
}

func (m *Metrics) processExited(mode string) {
	if m != nil {
		m.ProcessExits.WithLabelValues(mode).Inc()
		m.Running.Set(0)
	}
}
