// File: internal/middleware/metrics.go
package middleware

import (
	"net/http"
	"time"

	"studyos/internal/monitoring"

	"github.com/gorilla/mux"
)

// Metrics records request counts and latency. Routes are labeled by
// their mux template so ids do not explode label cardinality.
func Metrics(m *monitoring.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isWebsocketUpgrade(r) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			rw := wrapResponseWriter(w)
			next.ServeHTTP(rw, r)

			m.ObserveRequest(r.Method, routeLabel(r), rw.status, time.Since(start))
		})
	}
}

func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
