package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTimerDuration(t *testing.T) {
	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), 10*time.Millisecond)
}

func TestTimerObserveDuration(t *testing.T) {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "test_observe_duration_seconds",
	})
	timer := NewTimer()
	timer.ObserveDuration(h)
	assert.Equal(t, 1, testutil.CollectAndCount(h))
}

func TestTimerObserveDurationVec(t *testing.T) {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "test_observe_duration_vec_seconds",
	}, []string{"query"})
	timer := NewTimer()
	timer.ObserveDurationVec(h, "CONSULTAR_CUENTA")
	timer.ObserveDurationVec(h, "ARQUEO_CUENTAS")
	assert.Equal(t, 2, testutil.CollectAndCount(h))
}

func TestQueryCounterLabels(t *testing.T) {
	before := testutil.ToFloat64(QueriesTotal.WithLabelValues("CONSULTAR_CUENTA", "success"))
	QueriesTotal.WithLabelValues("CONSULTAR_CUENTA", "success").Inc()
	after := testutil.ToFloat64(QueriesTotal.WithLabelValues("CONSULTAR_CUENTA", "success"))
	assert.Equal(t, before+1, after)
}
