package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the JSON shape of every error the API returns.
// Detail carries the raw upstream body on publish failures.
type errorResponse struct {
	Error  string          `json:"error"`
	Detail json.RawMessage `json:"detail,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, errorResponse{Error: message}, logger)
}

// WriteErrorDetail writes an error response with the raw upstream body
// attached. Non-JSON bodies are quoted so the response stays valid JSON.
func WriteErrorDetail(w http.ResponseWriter, status int, message string, detail []byte, logger *slog.Logger) {
	resp := errorResponse{Error: message}
	if json.Valid(detail) {
		resp.Detail = detail
	} else if len(detail) > 0 {
		quoted, err := json.Marshal(string(detail))
		if err == nil {
			resp.Detail = quoted
		}
	}
	WriteJSON(w, status, resp, logger)
}
