package handlers

import (
	"encoding/json"
	"net/http"

	"blogapi/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError отображает категорию ошибки на HTTP-статус.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.Validation, apperr.InvalidID:
		status = http.StatusBadRequest
	case apperr.Duplicate:
		status = http.StatusConflict
	case apperr.NotFound:
		status = http.StatusNotFound
	}

	body := map[string]string{"error": err.Error()}
	if field := apperr.FieldOf(err); field != "" {
		body["field"] = field
	}
	writeJSON(w, status, body)
}
