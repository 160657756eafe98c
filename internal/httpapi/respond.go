package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"blankpoint/job-service/internal/catalog"
	"blankpoint/job-service/internal/lifecycle"
	"blankpoint/job-service/internal/search"
)

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonCreated(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// serviceError maps domain errors onto HTTP status codes. Not-found
// sentinels become 404, validation failures 400, anything else a logged 500.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, search.ErrNotFound),
		errors.Is(err, lifecycle.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		var ve *catalog.ValidationError
		if errors.As(err, &ve) {
			jsonError(w, ve.Msg, http.StatusBadRequest)
			return
		}
		log.Printf("[job-service] internal error: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}
