package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"wayfarer/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes data as a JSON response.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError maps a domain error to an HTTP status. Unknown errors become a
// sanitized 500 so internals never leak to the client.
func WriteError(w http.ResponseWriter, err error) {
	status, message := mapError(err)

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("unhandled error")
	}

	WriteJSON(w, status, ErrorResponse{Error: message})
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, "Authentication required or credentials invalid"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, "Resource already exists"
	case errors.Is(err, models.ErrInvalidToken):
		return http.StatusBadRequest, "Invalid or expired token"
	case errors.Is(err, models.ErrInvalidFileType):
		return http.StatusBadRequest, "Unsupported file type. Allowed: JPEG, PNG, GIF, WebP, HEIC, HEIF"
	case errors.Is(err, models.ErrFileTooLarge):
		return http.StatusBadRequest, "File too large"
	case errors.Is(err, models.ErrInvalidFilename):
		return http.StatusBadRequest, "Invalid filename"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// WriteValidationError reports a request that failed struct validation.
func WriteValidationError(w http.ResponseWriter, err error) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed: " + err.Error()})
}
