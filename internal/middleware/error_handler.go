// File: internal/middleware/error_handler.go
package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NotFoundHandler answers unknown routes with the standard error envelope
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		builderOrDefault(r).WriteNotFound(w, r, "Route "+r.URL.Path+" not found")
	})
}

// MethodNotAllowedHandler lists the methods the matched path accepts.
// router is consulted per request because mux does not pass them along.
func MethodNotAllowedHandler(router *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		builderOrDefault(r).WriteMethodNotAllowed(w, r, allowedMethods(router, r))
	})
}

func allowedMethods(router *mux.Router, r *http.Request) []string {
	var allowed []string
	seen := map[string]bool{}
	_ = router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}
		candidate := r.Clone(r.Context())
		for _, m := range methods {
			candidate.Method = m
			var match mux.RouteMatch
			if route.Match(candidate, &match) && !seen[m] {
				seen[m] = true
				allowed = append(allowed, m)
			}
		}
		return nil
	})
	if len(allowed) > 0 && !seen[http.MethodOptions] {
		allowed = append(allowed, http.MethodOptions)
	}
	return allowed
}
