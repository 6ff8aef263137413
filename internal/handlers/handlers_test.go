package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"blogapi/config"
	"blogapi/internal/models"
	"blogapi/internal/records"
	"blogapi/internal/server"
	"blogapi/internal/store"
)

const absentID = "65b15b6973947f0159b8ad22"

func newTestHandler() http.Handler {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	posts := records.NewPostRecords(store.NewMemoryCollection(), records.PostDefaults{
		Tag:      cfg.Post.DefaultTag,
		Image:    cfg.Post.PlaceholderImage,
		PageSize: cfg.Post.PageSize,
	})
	users := records.NewUserRecords(store.NewMemoryCollection("username", "email"))

	return server.New(cfg, logger, posts, users).Handler()
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	decoded := map[string]any{}
	json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func insertPost(t *testing.T, handler http.Handler) string {
	t.Helper()

	w, body := doRequest(t, handler, http.MethodPost, "/post",
		`{"title": "MockTitle of post 42", "content": "This is test content of post number 42"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// "Post with id: <hex> inserted successfully!"
	message, _ := body["message"].(string)
	id := strings.TrimSuffix(strings.TrimPrefix(message, "Post with id: "), " inserted successfully!")
	if id == "" || id == message {
		t.Fatalf("cannot extract id from message %q", message)
	}
	return id
}

func TestPostCreateGetDelete(t *testing.T) {
	handler := newTestHandler()
	id := insertPost(t, handler)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/post/"+id, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var post models.Post
	if err := json.NewDecoder(w.Body).Decode(&post); err != nil {
		t.Fatalf("cannot decode post: %v", err)
	}
	if post.Title != "MockTitle of post 42" {
		t.Errorf("title mismatch: %q", post.Title)
	}
	if post.Image == "" || len(post.Tags) == 0 {
		t.Errorf("defaults not applied: %+v", post)
	}

	w, _ = doRequest(t, handler, http.MethodDelete, "/post/"+id, "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	w, _ = doRequest(t, handler, http.MethodGet, "/post/"+id, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestPostGet_NotFoundVsBadID(t *testing.T) {
	handler := newTestHandler()

	w, _ := doRequest(t, handler, http.MethodGet, "/post/"+absentID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for absent id, got %d", w.Code)
	}

	w, _ = doRequest(t, handler, http.MethodGet, "/post/ghajsf", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", w.Code)
	}
}

func TestPostCreate_Validation(t *testing.T) {
	handler := newTestHandler()

	w, body := doRequest(t, handler, http.MethodPost, "/post",
		`{"title": "ab", "content": "This is test content of post number 42"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body["field"] != "title" {
		t.Errorf("expected field title, got %v", body["field"])
	}
}

func TestPostList_Pagination(t *testing.T) {
	handler := newTestHandler()
	for i := 0; i < 3; i++ {
		insertPost(t, handler)
	}

	w, body := doRequest(t, handler, http.MethodGet, "/post?page=1&pageSize=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["currentPage"] != float64(1) || body["pageCount"] != float64(2) {
		t.Errorf("unexpected envelope: %v", body)
	}
	posts, _ := body["posts"].([]any)
	if len(posts) != 2 {
		t.Errorf("expected 2 posts, got %d", len(posts))
	}
}

func TestPostLikesEndpoints(t *testing.T) {
	handler := newTestHandler()
	id := insertPost(t, handler)

	w, body := doRequest(t, handler, http.MethodPut, "/post/increment-likes/"+id, "")
	if w.Code != http.StatusOK || body["likesCounter"] != float64(1) {
		t.Fatalf("increment: code=%d body=%v", w.Code, body)
	}

	w, body = doRequest(t, handler, http.MethodPut, "/post/decrement-likes/"+id, "")
	if w.Code != http.StatusOK || body["likesCounter"] != float64(0) {
		t.Fatalf("decrement: code=%d body=%v", w.Code, body)
	}

	// Счётчик на нуле — декремент отклоняется
	w, _ = doRequest(t, handler, http.MethodPut, "/post/decrement-likes/"+id, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestPostUpdateTitleEndpoint(t *testing.T) {
	handler := newTestHandler()
	id := insertPost(t, handler)

	w, _ := doRequest(t, handler, http.MethodPut, "/post/title/"+id, `{"title": "Updated title"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w, body := doRequest(t, handler, http.MethodGet, "/post/"+id, "")
	if w.Code != http.StatusOK || body["title"] != "Updated title" {
		t.Errorf("title not updated: %v", body)
	}

	w, _ = doRequest(t, handler, http.MethodPut, "/post/title/"+absentID, `{"title": "Updated title"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUserEndpoints(t *testing.T) {
	handler := newTestHandler()

	w, body := doRequest(t, handler, http.MethodPost, "/user",
		`{"username": "MockUser42", "email": "mockEmail42@example.com", "password": "TestPassword!132"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	message, _ := body["message"].(string)
	id := strings.TrimSuffix(strings.TrimPrefix(message, "User with id: "), " inserted successfully!")

	// Дубликат имени — конфликт
	w, _ = doRequest(t, handler, http.MethodPost, "/user",
		`{"username": "MockUser42", "email": "other42@example.com", "password": "TestPassword!132"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}

	w, _ = doRequest(t, handler, http.MethodGet, "/user/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "password") || strings.Contains(w.Body.String(), "TestPassword") {
		t.Error("ответ не должен содержать пароль")
	}

	w, _ = doRequest(t, handler, http.MethodGet, "/user/username/MockUser42", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	w, body = doRequest(t, handler, http.MethodPatch, "/user/admin/"+id, "")
	if w.Code != http.StatusOK || body["isAdmin"] != true {
		t.Errorf("toggle admin: code=%d body=%v", w.Code, body)
	}

	w, _ = doRequest(t, handler, http.MethodPut, "/user/password/"+id, `{"password": "NewPassword!132"}`)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w, _ = doRequest(t, handler, http.MethodDelete, "/user/"+id, "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	w, _ = doRequest(t, handler, http.MethodGet, "/user/"+id, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUserLoginEndpoint(t *testing.T) {
	handler := newTestHandler()

	w, _ := doRequest(t, handler, http.MethodPost, "/user",
		`{"username": "LoginUser", "email": "login@example.com", "password": "TestPassword!132"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w, body := doRequest(t, handler, http.MethodPost, "/user/login",
		`{"username": "LoginUser", "password": "TestPassword!132"}`)
	if w.Code != http.StatusOK || body["username"] != "LoginUser" {
		t.Errorf("login: code=%d body=%v", w.Code, body)
	}

	w, _ = doRequest(t, handler, http.MethodPost, "/user/login",
		`{"username": "LoginUser", "password": "WrongPassword!132"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	w, _ = doRequest(t, handler, http.MethodPost, "/user/login",
		`{"username": "NoSuchUser", "password": "TestPassword!132"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestHomeRoute(t *testing.T) {
	handler := newTestHandler()
	insertPost(t, handler)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var posts []models.Post
	if err := json.NewDecoder(w.Body).Decode(&posts); err != nil {
		t.Fatalf("cannot decode posts: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("expected 1 post, got %d", len(posts))
	}
}
