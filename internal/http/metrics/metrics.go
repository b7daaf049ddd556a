package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts requests and server-side failures, exported in Prometheus
// format on /metrics.
type Collector struct {
	requests prometheus.Counter
	errors   prometheus.Counter
	registry *prometheus.Registry
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projmatch_requests_total",
			Help: "Total number of HTTP requests.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projmatch_errors_total",
			Help: "Total number of 5xx HTTP responses.",
		}),
		registry: registry,
	}
	registry.MustRegister(c.requests, c.errors)
	return c
}

func (c *Collector) IncRequests() {
	c.requests.Inc()
}

func (c *Collector) IncErrors() {
	c.errors.Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
