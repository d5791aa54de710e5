package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Route classes used as the "route" label of the HTTP metrics.
const (
	RouteChat        = "chat"
	RouteArtwork     = "artwork"
	RouteUsage       = "usage"
	RouteHealth      = "health"
	RouteMetrics     = "metrics"
	RouteDiagnostics = "diagnostics"
	RouteStatic      = "static"
	RouteOther       = "other"
)

var routeClasses = map[string]string{
	"/api/chat":                   RouteChat,
	"/api/artwork/{objectNumber}": RouteArtwork,
	"/api/usage":                  RouteUsage,
	"/health":                     RouteHealth,
	"/metrics":                    RouteMetrics,
	"/api/test":                   RouteDiagnostics,
	"/debug-info":                 RouteDiagnostics,
	"/refresh":                    RouteDiagnostics,
	"/*":                          RouteStatic,
}

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "artguide",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by route class",
			// Chat requests wait on two LLM calls and the collection API.
			Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artguide",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route class",
		},
		[]string{"method", "route", "status"},
	)
)

var httpMetricsRegistered bool

// RegisterHTTPMetrics registers the request metrics recorded by Middleware. Must be called once from main.
func RegisterHTTPMetrics() {
	if httpMetricsRegistered {
		return
	}
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestsTotal)
	httpMetricsRegistered = true
}

// Middleware records HTTP request duration and count per route class.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			pattern := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				pattern = rctx.RoutePattern()
			}
			route := RouteClass(pattern)
			status := strconv.Itoa(ww.status)

			HTTPRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			HTTPRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		})
	}
}

// RouteClass maps a chi route pattern to a fixed label value.
func RouteClass(pattern string) string {
	if class, ok := routeClasses[pattern]; ok {
		return class
	}
	return RouteOther
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b) //nolint:wrapcheck // delegating to underlying ResponseWriter
}
