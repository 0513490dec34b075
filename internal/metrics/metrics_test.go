package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Observe("get", time.Now(), nil)
	m.Observe("get", time.Now(), nil)
	m.Observe("get", time.Now(), errors.New("missing"))
	m.SetStored(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("get", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Stored))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Observe("get", time.Now(), nil)
		m.SetStored(1)
	})
}
