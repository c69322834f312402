package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/keml-analysis/internal/loader"
	"github.com/Harshitk-cp/keml-analysis/internal/service"
	"github.com/Harshitk-cp/keml-analysis/internal/store"
	"github.com/rotisserie/eris"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps analysis and store errors to HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case eris.Is(err, loader.ErrInvalidConversation),
		errors.Is(err, service.ErrMissingPartnerTrust),
		errors.Is(err, service.ErrInvalidWeight),
		errors.Is(err, service.ErrInvalidTrust):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPropagationCycle),
		errors.Is(err, service.ErrCyclicArguments):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrRunStoreDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
