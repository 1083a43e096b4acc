package middleware

import (
	"net/http"
	"strconv"
	"time"

	"stockledger/internal/pkg/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Metrics registra contagem e latência por método, rota e status.
// A rota é o padrão do ServeMux (e.g. "GET /v1/products/{id}") para manter a cardinalidade baixa.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(rec.status)
			m.RequestCounter.WithLabelValues(r.Method, path, status).Inc()
			m.RequestDurationHistogram.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}
