// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating request data:
// path identifiers, the active flag, date ranges and JSON bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ongfinanzas/internal/core"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// errInvalidParam marks bad query or path input.
var errInvalidParam = errors.New("invalid parameter")

// paramError carries the offending field for a 400 response.
type paramError struct {
	field   string
	message string
}

func (e *paramError) Error() string { return e.message }

func (e *paramError) Unwrap() error { return errInvalidParam }

func (e *paramError) fieldError() core.FieldError {
	return core.FieldError{Field: e.field, Message: e.message}
}

// ParseActive reads the active query flag. Missing means true.
func ParseActive(query url.Values) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(query.Get("active")))
	switch v {
	case "", "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, &paramError{field: "active", message: "active must be true, false, 1 or 0"}
	}
}

// ParseID parses a positive integer identifier.
func ParseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, &paramError{field: field, message: field + " must be a positive integer"}
	}
	return id, nil
}

// ParseTop reads the top query parameter; missing or empty uses fallback.
func ParseTop(query url.Values, fallback int) (int, error) {
	v := strings.TrimSpace(query.Get("top"))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, &paramError{field: "top", message: "top must be a positive integer"}
	}
	return n, nil
}

// ParseDateRange reads from and to as YYYY-MM-DD. Missing values stay zero so
// the service reports them as required.
func ParseDateRange(query url.Values) (from, to core.Date, err error) {
	if from, err = parseOptionalDate(query, "from"); err != nil {
		return core.Date{}, core.Date{}, err
	}
	if to, err = parseOptionalDate(query, "to"); err != nil {
		return core.Date{}, core.Date{}, err
	}
	return from, to, nil
}

func parseOptionalDate(query url.Values, field string) (core.Date, error) {
	raw := strings.TrimSpace(query.Get(field))
	if raw == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return core.Date{}, &paramError{field: field, message: field + " must be a date in YYYY-MM-DD format"}
	}
	return d, nil
}

// DecodeJSON decodes a bounded JSON body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &paramError{field: "body", message: "request body is required"}
		}
		return &paramError{field: "body", message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

// pathID parses a chi URL parameter as a positive identifier.
func pathID(r *http.Request, name string) (int64, error) {
	return ParseID(name, chi.URLParam(r, name))
}

// rejectInput answers 400 when err came from parsing, and reports whether it did.
func rejectInput(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	var pe *paramError
	if errors.As(err, &pe) {
		badRequest(w, "invalid data", pe.fieldError())
		return true
	}
	badRequest(w, "invalid data", core.FieldError{Field: "request", Message: err.Error()})
	return true
}
