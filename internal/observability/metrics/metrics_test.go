package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestChatMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveCycle("known_condition", 0.01)
	m.ObserveCycle("known_condition", 0.02)
	m.ObserveCycle("unclassified", 1.5)
	m.ObserveGeneration("failed", "quota")
	m.ObserveGeneration("generated", "")
	m.ObserveCartAdd("ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cyclesTotal.WithLabelValues("known_condition")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationTotal.WithLabelValues("failed", "quota")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationTotal.WithLabelValues("generated", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartAddsTotal.WithLabelValues("ok")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.cycleLatency))
}

func TestChatMetricsDefaultRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	prev := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = reg
	defer func() { prometheus.DefaultRegisterer = prev }()

	m := NewChatMetrics(nil)
	m.ObserveCartAdd("error")
	assert.Equal(t, 1, testutil.CollectAndCount(m.cartAddsTotal))
}

func TestChatMetricsNilSafe(t *testing.T) {
	var m *ChatMetrics
	m.ObserveCycle("greeting", 0.1)
	m.ObserveGeneration("failed", "auth")
	m.ObserveCartAdd("ok")
}
