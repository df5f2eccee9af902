// internal/app/system/jsonutil/jsonutil.go
package jsonutil

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/workpulse/internal/app/system/limits"
	"github.com/dalemusser/workpulse/internal/app/system/metrics"
	"go.uber.org/zap"
)

// ErrorBody is the shape of every JSON error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg} with the given status and counts it under
// endpoint as a client error.
func Error(w http.ResponseWriter, endpoint string, status int, msg string) {
	metrics.RequestErrors.WithLabelValues(endpoint, "client").Inc()
	Write(w, status, ErrorBody{Error: msg})
}

// FieldErrors writes a 400 listing per-field validation messages.
func FieldErrors(w http.ResponseWriter, endpoint string, fields map[string]string) {
	metrics.RequestErrors.WithLabelValues(endpoint, "client").Inc()
	Write(w, http.StatusBadRequest, ErrorBody{Error: "Invalid request", Fields: fields})
}

// ServerError logs err and writes a generic 500 with msg.
func ServerError(w http.ResponseWriter, log *zap.Logger, endpoint, msg string, err error) {
	metrics.RequestErrors.WithLabelValues(endpoint, "server").Inc()
	log.Error(msg, zap.String("endpoint", endpoint), zap.Error(err))
	Write(w, http.StatusInternalServerError, ErrorBody{Error: msg})
}

// Decode reads a JSON body into v, rejecting unknown fields and bodies
// larger than limits.MaxJSONBody.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
