package middleware

import (
	"net/http"
	"sync/atomic"
)

// Metrics counts requests by outcome. Rejected requests are analyses refused
// with 422 because the argumentation cannot be resolved; they are not
// counted as errors.
type Metrics struct {
	requests  atomic.Int64
	errors    atomic.Int64
	rejected  atomic.Int64
	completed atomic.Int64
}

// MetricsSnapshot is the JSON form of the counters served on /metrics.
type MetricsSnapshot struct {
	RequestCount  int64 `json:"request_count"`
	ErrorCount    int64 `json:"error_count"`
	RejectedCount int64 `json:"rejected_count"`
	AnalysisCount int64 `json:"analysis_count"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Middleware counts every request. Successful POSTs count as completed
// analyses.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requests.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		switch {
		case rw.statusCode == http.StatusUnprocessableEntity:
			m.rejected.Add(1)
		case rw.statusCode >= 400:
			m.errors.Add(1)
		case r.Method == http.MethodPost:
			m.completed.Add(1)
		}
	})
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestCount:  m.requests.Load(),
		ErrorCount:    m.errors.Load(),
		RejectedCount: m.rejected.Load(),
		AnalysisCount: m.completed.Load(),
	}
}
