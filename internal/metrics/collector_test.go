package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("flowgraph", reg, nil)

	c.ObserveProcess(5*time.Millisecond, true)
	c.ObserveProcess(2*time.Millisecond, false)
	c.AddNodeExecutions(3)
	c.CacheHit()
	c.CacheMiss()
	c.CacheMiss()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.processTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.processTotal.WithLabelValues("failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.nodeExecutions))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheMisses))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	// A context without metrics calls straight through; nothing may panic.
	c.ObserveProcess(time.Millisecond, true)
	c.AddNodeExecutions(1)
	c.CacheHit()
	c.CacheMiss()
}

func TestCollector_NegativeExecutionsIgnored(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("flowgraph", reg, nil)

	c.AddNodeExecutions(-5)
	c.AddNodeExecutions(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.nodeExecutions))
}
