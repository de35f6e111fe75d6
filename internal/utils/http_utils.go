package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"studyos/internal/contextutils"
	"studyos/internal/services"

	"github.com/gorilla/mux"
)

// DecodeJSON decodes the request body into dst.
// An empty body is accepted when allowEmpty is set and leaves dst untouched.
func DecodeJSON(r *http.Request, dst interface{}, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}
		return services.NewValidationError("Request body is required", nil)
	}

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF) && allowEmpty:
			return nil
		case errors.Is(err, io.EOF):
			return services.NewValidationError("Request body is required", err)
		case errors.As(err, &maxErr):
			return &services.ServiceError{
				Type:       "VALIDATION_ERROR",
				Message:    "Request body is too large",
				Code:       "BODY_TOO_LARGE",
				StatusCode: http.StatusRequestEntityTooLarge,
				Cause:      err,
			}
		default:
			return services.NewValidationError("Invalid request body format", err)
		}
	}
	return nil
}

// PathID parses a positive integer route variable
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.InvalidInputError(name, "must be a positive integer")
	}
	return id, nil
}

// PathString returns a non-empty route variable
func PathString(r *http.Request, name string) (string, error) {
	raw := mux.Vars(r)[name]
	if raw == "" {
		return "", services.InvalidInputError(name, "is required")
	}
	return raw, nil
}

// QueryInt parses an optional integer query parameter
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.InvalidInputError(name, "must be an integer")
	}
	return v, nil
}

// UserID returns the authenticated caller or an unauthorized error
func UserID(r *http.Request) (int64, error) {
	if id := contextutils.GetUserID(r.Context()); id != 0 {
		return id, nil
	}
	return 0, services.NewUnauthorizedError("Authentication required")
}
