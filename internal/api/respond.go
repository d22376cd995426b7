package api

import (
	"encoding/json"
	"net/http"
)

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type envelope struct {
	Data          any       `json:"data,omitempty"`
	Error         *apiError `json:"error,omitempty"`
	Message       string    `json:"message,omitempty"`
	Transcription string    `json:"transcription,omitempty"`
	Success       bool      `json:"success"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a failed envelope. The type is derived from the status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{
		Success: false,
		Message: message,
		Error:   &apiError{Message: message, Type: errorType(status)},
	})
}

func errorType(status int) string {
	switch {
	case status == http.StatusTooManyRequests:
		return "rate_limit_error"
	case status == http.StatusServiceUnavailable:
		return "unavailable_error"
	case status >= 500:
		return "server_error"
	default:
		return "invalid_request_error"
	}
}
