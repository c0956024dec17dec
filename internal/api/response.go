// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/skillbridge/skillbridge/internal/logging"
	"github.com/skillbridge/skillbridge/internal/validation"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	// Success is true for 2xx responses
	Success bool `json:"success"`
	// Data carries the payload on success
	Data any `json:"data,omitempty"`
	// Error carries failure details on non-2xx responses
	Error *APIError `json:"error,omitempty"`
	// Meta carries request correlation fields
	Meta *APIMeta `json:"meta,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	// Code is a stable machine-readable error code
	Code string `json:"code"`
	// Message is a human-readable description
	Message string `json:"message"`
	// Details carries structured context such as field violations
	Details any `json:"details,omitempty"`
}

// APIMeta carries response metadata.
type APIMeta struct {
	// RequestID is the correlation ID for this request
	RequestID string `json:"request_id,omitempty"`
	// Timestamp is when the response was produced
	Timestamp time.Time `json:"timestamp"`
}

// Stable error codes returned by the API.
const (
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeInternal         = "INTERNAL_ERROR"
)

// ResponseWriter renders envelope responses.
type ResponseWriter struct {
	logger zerolog.Logger
}

// NewResponseWriter creates a ResponseWriter.
func NewResponseWriter(logger zerolog.Logger) *ResponseWriter {
	return &ResponseWriter{logger: logger.With().Str("component", "api").Logger()}
}

// Success writes a 2xx envelope with data.
func (rw *ResponseWriter) Success(w http.ResponseWriter, r *http.Request, status int, data any) {
	rw.write(w, r, status, APIResponse{Success: true, Data: data})
}

// Error writes a failure envelope.
func (rw *ResponseWriter) Error(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	rw.write(w, r, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// NotFound writes a 404 envelope.
func (rw *ResponseWriter) NotFound(w http.ResponseWriter, r *http.Request, message string) {
	rw.Error(w, r, http.StatusNotFound, CodeNotFound, message)
}

// BadRequest writes a 400 envelope.
func (rw *ResponseWriter) BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	rw.Error(w, r, http.StatusBadRequest, CodeInvalidArgument, message)
}

// ValidationFailed writes a 400 envelope carrying field violations.
func (rw *ResponseWriter) ValidationFailed(w http.ResponseWriter, r *http.Request, verr *validation.Error) {
	rw.write(w, r, http.StatusBadRequest, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    CodeValidationFailed,
			Message: "request validation failed",
			Details: verr.Fields,
		},
	})
}

// Internal writes a 500 envelope and logs the underlying error. The client
// never sees internal error text.
func (rw *ResponseWriter) Internal(w http.ResponseWriter, r *http.Request, err error) {
	rw.logger.Error().
		Err(err).
		Str("request_id", logging.RequestIDFromContext(r.Context())).
		Str("path", r.URL.Path).
		Msg("request failed")
	rw.Error(w, r, http.StatusInternalServerError, CodeInternal, "internal server error")
}

func (rw *ResponseWriter) write(w http.ResponseWriter, r *http.Request, status int, resp APIResponse) {
	resp.Meta = &APIMeta{
		RequestID: logging.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		rw.logger.Error().Err(err).Msg("encode response")
	}
}
