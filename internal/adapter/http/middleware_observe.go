package adapthttp

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"coachfit/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// panicRecovery converts handler panics into logged 500s.
func panicRecovery(mm *metrics.Manager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logrus.Errorf("http: panic serving %s: %v\n%s", r.URL.Path, rec, debug.Stack())
					if mm != nil {
						mm.CounterHandlePanic.Inc()
					}
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestMetrics records request counts and durations.
func requestMetrics(mm *metrics.Manager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mm == nil {
				next.ServeHTTP(w, r)
				return
			}

			defer func(begin time.Time) {
				mm.HistRequestDuration.Observe(time.Since(begin).Seconds())
			}(time.Now())

			resp := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(resp, r)

			mm.CounterRequests.With(prometheus.Labels{
				"method": r.Method,
				"status": strconv.Itoa(resp.statusCode),
			}).Inc()
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.statusCode = statusCode
}
