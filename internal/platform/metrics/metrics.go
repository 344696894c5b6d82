// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics exposes Prometheus instrumentation for the HTTP surface.
//
// Request counters are labelled with the chi route pattern rather than the raw
// path so that '/animes/1' and '/animes/2' share a single series.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute labels requests that no route handled (404/405).
const unmatchedRoute = "unmatched"

// HTTP holds the request-level collectors.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP registers the HTTP collectors on the given registerer.
// Pass [prometheus.DefaultRegisterer] in production and a fresh registry in tests.
func NewHTTP(registerer prometheus.Registerer) *HTTP {
	factory := promauto.With(registerer)

	return &HTTP{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Middleware records the count and latency of every request.
func (metrics *HTTP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		recorder := NewResponseRecorder(writer)
		start := time.Now()

		next.ServeHTTP(recorder, request)

		route := routePattern(request)
		metrics.requests.WithLabelValues(request.Method, route, strconv.Itoa(recorder.Status())).Inc()
		metrics.duration.WithLabelValues(request.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the collectors of the given gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// routePattern reads the pattern chi resolved while routing the request.
func routePattern(request *http.Request) string {
	routeContext := chi.RouteContext(request.Context())
	if routeContext == nil {
		return unmatchedRoute
	}

	if pattern := routeContext.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
