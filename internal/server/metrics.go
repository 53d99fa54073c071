package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type serverMetrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpDurationSeconds *prometheus.HistogramVec
	flightsTotal        *prometheus.CounterVec
	flightHeightMeters  *prometheus.HistogramVec
	sweepsTotal         *prometheus.CounterVec
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waterrocket_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"path", "method", "code"},
		),
		httpDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "waterrocket_http_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		flightsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waterrocket_flights_total",
				Help: "Simulated flights by model and outcome.",
			},
			[]string{"model", "outcome"},
		),
		flightHeightMeters: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "waterrocket_flight_max_height_meters",
				Help:    "Peak height of simulated flights.",
				Buckets: prometheus.LinearBuckets(0, 5, 12),
			},
			[]string{"model"},
		),
		sweepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waterrocket_sweeps_total",
				Help: "Parameter sweeps by plan.",
			},
			[]string{"plan"},
		),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpDurationSeconds,
		m.flightsTotal,
		m.flightHeightMeters,
		m.sweepsTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// metricsHandler serves the server's own registry.
func metricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// routePath labels requests by route template so path variables do not
// explode the label set.
func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

func (m *serverMetrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(sr, r)

		path := routePath(r)
		m.httpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(sr.statusCode)).Inc()
		m.httpDurationSeconds.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}
