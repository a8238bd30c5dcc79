package api

import (
	"encoding/json"
	"net/http"
	"time"

	"il2-rankmod/light/internal/auth"
	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/models/dtos/responses"
)

func writeData[T any](w http.ResponseWriter, r *http.Request, statusCode int, data *T) {
	writeJSON(w, r, statusCode, responses.StatusEnvelope[T]{
		Status:    string(constants.APIStatusOk),
		RequestID: auth.GetRequestID(r.Context()),
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	if statusCode >= http.StatusInternalServerError {
		logging.Error("[API] Request failed",
			"path", r.URL.Path, "request_id", auth.GetRequestID(r.Context()), "error", message)
	}
	writeJSON(w, r, statusCode, responses.StatusEnvelope[any]{
		Status:    string(constants.APIStatusError),
		RequestID: auth.GetRequestID(r.Context()),
		Timestamp: time.Now().UTC(),
		Error:     message,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn("[API] Failed to encode response", "path", r.URL.Path, "error", err)
	}
}
