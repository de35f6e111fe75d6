// file: internal/middleware/recovery.go
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"studyos/internal/contextutils"
	"studyos/internal/response"
	"studyos/internal/services"

	"go.uber.org/zap"
)

// RecoveryConfig controls panic handling
type RecoveryConfig struct {
	// Include the panic value in the response outside production
	ExposePanic bool
	// Called once per recovered panic, e.g. to bump a metric
	OnPanic func(r *http.Request)
}

// DefaultRecoveryConfig returns production recovery configuration
func DefaultRecoveryConfig() *RecoveryConfig {
	return &RecoveryConfig{}
}

// Recovery turns panics into a 500 envelope and logs the stack
func Recovery(config *RecoveryConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultRecoveryConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// let the server abort the connection as it normally would
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				contextutils.Logger(r.Context(), logger).Error("Panic recovered",
					zap.String("event", "panic_recovered"),
					zap.Any("panic", rec),
					zap.String("panic_type", fmt.Sprintf("%T", rec)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				if config.OnPanic != nil {
					config.OnPanic(r)
				}

				writePanicResponse(w, r, rec, config)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writePanicResponse(w http.ResponseWriter, r *http.Request, rec interface{}, config *RecoveryConfig) {
	message := "Internal server error"
	if config.ExposePanic {
		message = fmt.Sprintf("Internal server error: %v", rec)
	}
	err := &services.ServiceError{
		Type:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}

	if rb := response.GetBuilder(r.Context()); rb != nil {
		rb.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, `{"success":false,"error":{"type":"INTERNAL_ERROR","message":%q},"request_id":%q,"timestamp":%d}`,
		message, contextutils.GetRequestID(r.Context()), time.Now().Unix())
}
