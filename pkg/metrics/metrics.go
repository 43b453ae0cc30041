package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector 點數服務的 prometheus 指標，實作 usecase.Metrics
type Collector struct {
	registry *prometheus.Registry

	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	LockWait          prometheus.Histogram
}

// New 建立 Collector 並註冊到獨立的 Registry
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "point_operations_total",
				Help: "Total point operations by result",
			},
			[]string{"op", "result"}, // result: ok|invalid_user|invalid_amount|limit_exceeded|insufficient_balance|error
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "point_operation_duration_seconds",
				Help:    "Point operation latency",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"op"},
		),
		LockWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "point_lock_wait_seconds",
				Help:    "Time spent waiting for the per-user lock",
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 12),
			},
		),
	}
	c.registry.MustRegister(
		c.Operations,
		c.OperationDuration,
		c.LockWait,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) ObserveOperation(op string, result string, elapsed time.Duration) {
	c.Operations.WithLabelValues(op, result).Inc()
	c.OperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveLockWait(elapsed time.Duration) {
	c.LockWait.Observe(elapsed.Seconds())
}

// Registry 回傳底層 Registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler /metrics endpoint
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
