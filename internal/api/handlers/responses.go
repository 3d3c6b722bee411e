package handlers

import (
	"encoding/json"
	"net/http"
)

// fieldError is one entry of the structured validation error list.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithValidationErrors(w http.ResponseWriter, errs []fieldError) {
	respondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"errors": errs,
	})
}
