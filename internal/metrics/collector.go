// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 引擎指标收集器。nil Collector 上的所有方法均为 no-op，
// 未配置指标的 Context 可以无条件调用。
type Collector struct {
	// 处理调用指标
	processTotal    *prometheus.CounterVec
	processDuration prometheus.Histogram

	// 节点执行指标
	nodeExecutions prometheus.Counter

	// 编译缓存指标
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	logger *zap.Logger
}

// NewCollector 创建指标收集器。registerer 为 nil 时使用默认注册表。
func NewCollector(namespace string, registerer prometheus.Registerer, logger *zap.Logger) *Collector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(registerer)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.processTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "process_calls_total",
			Help:      "Total number of processing calls",
		},
		[]string{"status"},
	)

	c.processDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "process_duration_seconds",
			Help:      "Processing call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	c.nodeExecutions = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_executions_total",
			Help:      "Total number of compute node handler invocations",
		},
	)

	c.cacheHits = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compilation_cache_hits_total",
			Help:      "Total number of compilation cache hits",
		},
	)

	c.cacheMisses = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compilation_cache_misses_total",
			Help:      "Total number of compilation cache misses",
		},
	)

	c.logger.Debug("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// ObserveProcess 记录一次处理调用及其耗时。
func (c *Collector) ObserveProcess(duration time.Duration, ok bool) {
	if c == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	c.processTotal.WithLabelValues(status).Inc()
	c.processDuration.Observe(duration.Seconds())
}

// AddNodeExecutions 累加本次调用执行的节点数。
func (c *Collector) AddNodeExecutions(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.nodeExecutions.Add(float64(n))
}

// CacheHit 记录一次编译缓存命中。
func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	c.cacheHits.Inc()
}

// CacheMiss 记录一次编译缓存未命中。
func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}
	c.cacheMisses.Inc()
}
