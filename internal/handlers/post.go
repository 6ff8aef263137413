package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"blogapi/internal/models"
	"blogapi/internal/records"
)

type PostHandler struct {
	Records *records.PostRecords
}

type postPage struct {
	Posts       []models.Post `json:"posts"`
	CurrentPage int           `json:"currentPage"`
	PageCount   int           `json:"pageCount"`
}

// Список постов с пагинацией: GET /post?page&pageSize
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	posts, pageCount, err := h.Records.ListPage(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postPage{Posts: posts, CurrentPage: page, PageCount: pageCount})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.Post
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	id, err := h.Records.Insert(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("Post with id: %s inserted successfully!", id),
	})
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	post, err := h.Records.GetOne(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("Post with id %s does not exist", id),
		})
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	deleted, err := h.Records.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("Post with id %s does not exist", id),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *PostHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	h.updateField(w, r, "title", h.Records.UpdateTitle)
}

func (h *PostHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	h.updateField(w, r, "content", h.Records.UpdateContent)
}

func (h *PostHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	h.updateField(w, r, "image", h.Records.UpdateImage)
}

func (h *PostHandler) updateField(w http.ResponseWriter, r *http.Request, field string,
	update func(ctx context.Context, id, value string) error) {

	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	id := mux.Vars(r)["id"]
	if err := update(r.Context(), id, body[field]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *PostHandler) IncrementLikes(w http.ResponseWriter, r *http.Request) {
	h.changeLikes(w, r, h.Records.IncrementLikes)
}

func (h *PostHandler) DecrementLikes(w http.ResponseWriter, r *http.Request) {
	h.changeLikes(w, r, h.Records.DecrementLikes)
}

func (h *PostHandler) changeLikes(w http.ResponseWriter, r *http.Request,
	change func(ctx context.Context, id string) (int, error)) {

	count, err := change(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likesCounter": count})
}
