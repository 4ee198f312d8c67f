// Package http exposes the ledger services as a JSON API.
//
// Every response uses the same envelope: success (0 or 1), a message, an
// optional data payload and, for validation failures, the field errors.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ongfinanzas/internal/core"
	"ongfinanzas/internal/log"
	"ongfinanzas/internal/middleware/trace"
)

const msgInternalError = "internal server error"

type envelope struct {
	Success   int               `json:"success"`
	Message   string            `json:"message"`
	Data      any               `json:"data,omitempty"`
	Errors    []core.FieldError `json:"errors,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// statusFor maps a result kind to its HTTP status. okStatus lets creates answer 201.
func statusFor(kind core.Kind, okStatus int) int {
	switch kind {
	case core.KindOK:
		return okStatus
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindValidation:
		return http.StatusBadRequest
	case core.KindRejected:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respond writes a single-value result. The payload is only sent on success.
func respond[T any](w http.ResponseWriter, r *http.Request, res core.Result[T], err error, okStatus int) {
	if err != nil {
		internalError(w, r, err)
		return
	}
	env := envelope{Message: res.Message, Errors: res.Errors}
	if res.OK() {
		env.Success = 1
		env.Data = res.Value
	}
	writeEnvelope(w, statusFor(res.Kind, okStatus), env)
}

// respondList writes a list result. A not-found list still carries an empty array.
func respondList[T any](w http.ResponseWriter, r *http.Request, res core.Result[[]T], err error) {
	if err != nil {
		internalError(w, r, err)
		return
	}
	env := envelope{Message: res.Message, Errors: res.Errors}
	switch res.Kind {
	case core.KindOK:
		env.Success = 1
		env.Data = res.Value
	case core.KindNotFound:
		env.Data = emptyIfNil(res.Value)
	}
	writeEnvelope(w, statusFor(res.Kind, http.StatusOK), env)
}

func emptyIfNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

// badRequest answers 400 for input that never reached a service.
func badRequest(w http.ResponseWriter, message string, errs ...core.FieldError) {
	writeEnvelope(w, http.StatusBadRequest, envelope{Message: message, Errors: errs})
}

// internalError logs err with the request ID and hides its text from the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentHTTP)

	fields := log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "")
	log.NewStructuredLogger(logger).LogError(ctx, "Request failed", err, routePattern(r), fields)

	writeEnvelope(w, http.StatusInternalServerError, envelope{
		Message:   msgInternalError,
		RequestID: trace.GetRequestID(ctx),
	})
}

// routePattern names the matched chi route, e.g. "GET /v1/projects/{code}".
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return r.Method + " " + pattern
		}
	}
	return r.Method + " " + r.URL.Path
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
