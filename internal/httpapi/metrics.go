package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"modelcfg/internal/errs"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelcfg",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modelcfg",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "modelcfg",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
		[]string{"path"},
	)

	quantiseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelcfg",
			Name:      "quantise_total",
			Help:      "Quantisation config selections by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	promptTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelcfg",
			Name:      "prompt_total",
			Help:      "Prompts formatted by family and template use",
		},
		[]string{"family", "template"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight, quantiseTotal, promptTotal)
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments requests for Prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sr, r)
		// chi fills the route pattern while routing, so read it afterwards.
		path := routePatternOrPath(r)
		statusLabel := strconv.Itoa(sr.status)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, r.Method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, statusLabel).Observe(dur)
	})
}

// inflightMiddleware tracks in-flight requests per route pattern. It must be
// installed inside the router so the pattern is known.
func inflightMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := routePatternOrPath(r)
		httpInflight.WithLabelValues(path).Inc()
		defer httpInflight.WithLabelValues(path).Dec()
		next.ServeHTTP(w, r)
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// observeQuantise counts a quantise request. Unknown modes share one label.
func observeQuantise(mode string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errs.IsMissingDependency(err):
		outcome = "missing_dependency"
	case errs.IsValidation(err):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	switch mode {
	case "int8", "int4", "gptq", "awq":
	default:
		mode = "unknown"
	}
	quantiseTotal.WithLabelValues(mode, outcome).Inc()
}

// observePrompt counts a formatted prompt.
func observePrompt(family string, templated bool) {
	tpl := "default"
	if !templated {
		tpl = "none"
	}
	promptTotal.WithLabelValues(family, tpl).Inc()
}
