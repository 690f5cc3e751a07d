package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the HTTP-level Prometheus instruments. A single instance is
// registered at startup and shared by the metrics middleware.
type Collector struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func New() *Collector {
	return &Collector{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrms",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status class.",
		}, []string{"method", "route", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hrms",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (c *Collector) Register(reg prometheus.Registerer) error {
	if err := reg.Register(c.Requests); err != nil {
		return err
	}
	return reg.Register(c.Duration)
}
