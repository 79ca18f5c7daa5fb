package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the chat pipeline.
type ChatMetrics struct {
	cyclesTotal     *prometheus.CounterVec
	generationTotal *prometheus.CounterVec
	cycleLatency    *prometheus.HistogramVec
	cartAddsTotal   *prometheus.CounterVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		cyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ruralcare",
			Subsystem: "chat",
			Name:      "cycles_total",
			Help:      "Completed assistant reply cycles by intent",
		}, []string{"intent"}),
		generationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ruralcare",
			Subsystem: "chat",
			Name:      "generation_total",
			Help:      "External generation calls by outcome and error class",
		}, []string{"outcome", "class"}),
		cycleLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ruralcare",
			Subsystem: "chat",
			Name:      "cycle_latency_seconds",
			Help:      "Time from user submission to assistant reply",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
		cartAddsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ruralcare",
			Subsystem: "chat",
			Name:      "cart_adds_total",
			Help:      "Recommendation cart additions by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.cyclesTotal, m.generationTotal, m.cycleLatency, m.cartAddsTotal)
	return m
}

func (m *ChatMetrics) ObserveCycle(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.cyclesTotal.WithLabelValues(intent).Inc()
	m.cycleLatency.WithLabelValues(intent).Observe(seconds)
}

func (m *ChatMetrics) ObserveGeneration(outcome, class string) {
	if m == nil {
		return
	}
	if class == "" {
		class = "none"
	}
	m.generationTotal.WithLabelValues(outcome, class).Inc()
}

func (m *ChatMetrics) ObserveCartAdd(status string) {
	if m == nil {
		return
	}
	m.cartAddsTotal.WithLabelValues(status).Inc()
}
