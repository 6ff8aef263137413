package handlers

import (
	"net/http"

	"blogapi/internal/records"
)

type HomeHandler struct {
	Records *records.PostRecords
}

// Главная страница отдаёт полный список постов без пагинации.
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Records.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
