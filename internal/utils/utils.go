package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rahulnair/bank-backoffice/internal/models"
)

// WriteJSON writes data as a JSON response body. A nil data writes the status
// line only, which keeps 204 responses body-free.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes the uniform error envelope used by every endpoint.
func WriteError(w http.ResponseWriter, status int, errorMsg, details string) {
	WriteJSON(w, status, models.ErrorResponse{
		Error:   errorMsg,
		Message: details,
	})
}
