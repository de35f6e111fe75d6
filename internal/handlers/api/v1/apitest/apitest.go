// Package apitest drives controllers through a mux router in tests
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"studyos/internal/contextutils"
	"studyos/internal/response"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// Server routes requests to controllers, authenticating every protected
// request as a fixed user
type Server struct {
	Router    *mux.Router
	Public    *mux.Router
	Protected *mux.Router
	UserID    int64
}

// NewServer builds the /api tree used by the real router
func NewServer(userID int64) *Server {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	public := api.NewRoute().Subrouter()
	protected := api.NewRoute().Subrouter()

	s := &Server{Router: router, Public: public, Protected: protected, UserID: userID}
	protected.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(contextutils.WithUserID(r.Context(), s.UserID)))
		})
	})
	return s
}

// Do serves one request; body is JSON encoded unless it is nil, a string or an io.Reader
func (s *Server) Do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case io.Reader:
		reader = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.Serve(req)
}

// Serve runs a prepared request
func (s *Server) Serve(req *http.Request) *httptest.ResponseRecorder {
	builder := response.NewBuilder(nil, nil)
	rec := httptest.NewRecorder()
	response.Middleware(builder)(s.Router).ServeHTTP(rec, req)
	return rec
}

// Envelope is the decoded response envelope with raw data
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
	Meta *struct {
		Count int `json:"count"`
	} `json:"meta"`
}

// Decode parses the envelope and, when out is non-nil, its data
func Decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

// ErrorType returns the envelope error type, or "" on success
func ErrorType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := Decode(t, rec, nil)
	if env.Error == nil {
		return ""
	}
	return env.Error.Type
}
