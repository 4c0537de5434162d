package middleware

import (
	"net/http"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware counts requests under a fixed route label so run ids
// never become label values.
type MetricsMiddleware struct {
	Route string
	Next  http.Handler
}

func (m MetricsMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	m.Next.ServeHTTP(rec, r)
	metrics.RecordRequest(r.Method, m.Route, rec.status)
}
