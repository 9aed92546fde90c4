package common

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the JSON body for operations that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondWithError writes {"error": message} with the given status.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithJSON marshals payload and writes it with the given status.
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
