package rest

import (
	"encoding/json"
	"errors"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"net/http"
)

// WriteJSONError отправляет ошибку в формате {"error": "..."}
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// writeDomainError переводит ошибки ядра в HTTP-статусы.
func writeDomainError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	var fetchErr *domain.FetchError

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		WriteJSONError(w, http.StatusNotFound, "Region selector session not found")
	case errors.Is(err, domain.ErrPropertyNotFound):
		WriteJSONError(w, http.StatusNotFound, "Property not found")
	case errors.Is(err, domain.ErrTooManySessions):
		WriteJSONError(w, http.StatusServiceUnavailable, "Too many active region selector sessions, try again later")
	case errors.Is(err, domain.ErrRegionNotVisible):
		WriteJSONError(w, http.StatusConflict, "Region is not in the current list")
	case errors.Is(err, domain.ErrInvalidLevel), errors.Is(err, domain.ErrParentRequired):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &fetchErr):
		logger.Error("Region provider failed", err, nil)
		WriteJSONError(w, http.StatusBadGateway, "Region data is temporarily unavailable")
	default:
		logger.Error("Unhandled error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}
