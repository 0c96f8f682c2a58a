package main

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/knowledge"
)

const metricsNamespace = "software_mentions"

type metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	entities        *prometheus.CounterVec
	cache           *prometheus.CounterVec
	lookups         *prometheus.CounterVec
}

// newMetrics registers the service metrics on a registry of their own, so
// that each server exposes only what it counted.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		entities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "entities_total",
			Help:      "Software entities returned, by entity type.",
		}, []string{"type"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "response_cache_total",
			Help:      "Entity response cache lookups by result.",
		}, []string{"result"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "knowledge_base_lookups_total",
			Help:      "Software names looked up in the knowledge base, by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.requests, m.requestDuration, m.entities, m.cache, m.lookups)
	m.registry.MustRegister(prometheus.NewGoCollector())
	return m
}

// middleware observes every request once the handlers are done.
func (m *metrics) middleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

func (m *metrics) handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

type countingStore struct {
	knowledge.Store
	lookups *prometheus.CounterVec
}

func (s countingStore) Lookup(ctx context.Context, names []string) (map[string]*cache.Lookup, error) {
	found, err := s.Store.Lookup(ctx, names)
	if err != nil {
		s.lookups.WithLabelValues("error").Add(float64(len(names)))
		return nil, err
	}
	s.lookups.WithLabelValues("found").Add(float64(len(found)))
	s.lookups.WithLabelValues("missing").Add(float64(len(names) - len(found)))
	return found, nil
}

// countLookups counts the names store is asked for.
func (m *metrics) countLookups(store knowledge.Store) knowledge.Store {
	return countingStore{Store: store, lookups: m.lookups}
}
