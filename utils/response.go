package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the envelope every error status is rendered with.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

func SendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(body)
}

func SendSuccess(w http.ResponseWriter, body interface{}) {
	SendJSON(w, http.StatusOK, body)
}

func SendError(w http.ResponseWriter, statusCode int) {
	SendJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error:   statusCode,
		Message: StatusMessage(statusCode),
	})
}

func SendHTTPError(w http.ResponseWriter, err *HTTPError) {
	SendJSON(w, err.Status, ErrorResponse{
		Success: false,
		Error:   err.Status,
		Message: err.Message,
	})
}
