package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notes-server/internal/domain"
	"notes-server/internal/middleware"
	"notes-server/internal/repository"
	"notes-server/internal/service"
	"notes-server/internal/validation"
	"notes-server/pkg/jwt"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const testSecret = "handler-test-secret-32-chars!!"

type memNoteRepo struct {
	notes map[uuid.UUID]domain.Note
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{notes: make(map[uuid.UUID]domain.Note)}
}

func (m *memNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	m.notes[note.ID] = *note
	return nil
}

func (m *memNoteRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	if n, exists := m.notes[id]; exists {
		copied := n
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memNoteRepo) ListByUser(ctx context.Context, userID uuid.UUID, fn func(*domain.Note) error) error {
	for _, n := range m.notes {
		if n.UserID == userID {
			copied := n
			if err := fn(&copied); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *memNoteRepo) Update(ctx context.Context, note *domain.Note) error {
	if _, exists := m.notes[note.ID]; !exists {
		return repository.ErrNotFound
	}
	m.notes[note.ID] = *note
	return nil
}

func (m *memNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.notes[id]; !exists {
		return repository.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

// newTestRouter wires notes routes the same way cmd/server does.
func newTestRouter(repo repository.NoteRepository) *mux.Router {
	noteService := service.NewNoteService(repo, nil)
	noteHandler := NewNoteHandler(noteService, validation.NewPipeline())

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.AuthMiddleware(testSecret))
	api.HandleFunc("/notes", noteHandler.Create).Methods("POST")
	api.HandleFunc("/notes", noteHandler.List).Methods("GET")
	api.HandleFunc("/notes", noteHandler.Update).Methods("PUT")
	api.HandleFunc("/notes/{id}", noteHandler.Get).Methods("GET")
	api.HandleFunc("/notes/{id}", noteHandler.Delete).Methods("DELETE")
	return r
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token, err := jwt.GenerateToken(userID.String(), time.Hour, testSecret)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return "Bearer " + token
}

func doRequest(t *testing.T, router *mux.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNoteHandler_RequiresToken(t *testing.T) {
	router := newTestRouter(newMemNoteRepo())

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/notes"},
		{http.MethodPost, "/api/v1/notes"},
		{http.MethodPut, "/api/v1/notes"},
		{http.MethodGet, "/api/v1/notes/" + uuid.NewString()},
		{http.MethodDelete, "/api/v1/notes/" + uuid.NewString()},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doRequest(t, router, tt.method, tt.path, "", nil)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestNoteHandler_CreateAndGet(t *testing.T) {
	router := newTestRouter(newMemNoteRepo())
	owner := uuid.New()
	token := bearerToken(t, owner)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/notes", token, map[string]string{
		"title":   "groceries",
		"details": "milk",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	var created domain.CreateNoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("create: invalid body: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("create: missing id in response")
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/notes/"+created.ID.String(), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	var detail struct {
		ID           uuid.UUID  `json:"id"`
		Title        string     `json:"title"`
		Details      string     `json:"details"`
		CreationDate time.Time  `json:"creationDate"`
		EditDate     *time.Time `json:"editDate"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("get: invalid body: %v", err)
	}
	if detail.ID != created.ID || detail.Title != "groceries" || detail.Details != "milk" {
		t.Errorf("get: unexpected body %s", rec.Body.String())
	}
	if detail.EditDate != nil {
		t.Errorf("get: expected null editDate, got %v", detail.EditDate)
	}
	if detail.CreationDate.IsZero() {
		t.Error("get: missing creationDate")
	}
}

func TestNoteHandler_ValidationErrorBody(t *testing.T) {
	router := newTestRouter(newMemNoteRepo())
	token := bearerToken(t, uuid.New())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/notes", token, map[string]string{
		"title": "",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var failures []validation.FieldError
	if err := json.Unmarshal(rec.Body.Bytes(), &failures); err != nil {
		t.Fatalf("expected field error array, got %s", rec.Body.String())
	}
	if len(failures) != 1 || failures[0].Field != "title" {
		t.Errorf("unexpected failures: %v", failures)
	}
}

func TestNoteHandler_NotFoundShape(t *testing.T) {
	repo := newMemNoteRepo()
	router := newTestRouter(repo)
	owner := uuid.New()
	stranger := uuid.New()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/notes", bearerToken(t, owner), map[string]string{
		"title": "secret",
	})
	var created domain.CreateNoteResponse
	json.Unmarshal(rec.Body.Bytes(), &created)

	missing := doRequest(t, router, http.MethodGet, "/api/v1/notes/"+uuid.NewString(), bearerToken(t, owner), nil)
	foreign := doRequest(t, router, http.MethodGet, "/api/v1/notes/"+created.ID.String(), bearerToken(t, stranger), nil)

	for name, rec := range map[string]*httptest.ResponseRecorder{"missing": missing, "foreign": foreign} {
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", name, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("%s: expected empty body, got %s", name, rec.Body.String())
		}
	}
}

func TestNoteHandler_UpdateAndDelete(t *testing.T) {
	router := newTestRouter(newMemNoteRepo())
	owner := uuid.New()
	token := bearerToken(t, owner)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/notes", token, map[string]string{
		"title": "before",
	})
	var created domain.CreateNoteResponse
	json.Unmarshal(rec.Body.Bytes(), &created)

	rec = doRequest(t, router, http.MethodPut, "/api/v1/notes", token, map[string]string{
		"id":    created.ID.String(),
		"title": "after",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update: expected 204, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/notes/"+created.ID.String(), token, nil)
	var detail domain.NoteDetails
	json.Unmarshal(rec.Body.Bytes(), &detail)
	if detail.Title != "after" {
		t.Errorf("update not applied, title = %q", detail.Title)
	}
	if detail.EditDate == nil {
		t.Error("expected non-null editDate after update")
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/notes/"+created.ID.String(), token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/notes/"+created.ID.String(), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestNoteHandler_UpdateMissingNote(t *testing.T) {
	router := newTestRouter(newMemNoteRepo())
	token := bearerToken(t, uuid.New())

	rec := doRequest(t, router, http.MethodPut, "/api/v1/notes", token, map[string]string{
		"id":    uuid.NewString(),
		"title": "ghost",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestNoteHandler_List(t *testing.T) {
	router := newTestRouter(newMemNoteRepo())
	owner := uuid.New()
	other := uuid.New()

	for i := 0; i < 2; i++ {
		doRequest(t, router, http.MethodPost, "/api/v1/notes", bearerToken(t, owner), map[string]string{
			"title": fmt.Sprintf("mine-%d", i),
		})
	}
	doRequest(t, router, http.MethodPost, "/api/v1/notes", bearerToken(t, other), map[string]string{
		"title": "theirs",
	})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/notes", bearerToken(t, owner), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var items []domain.NoteListItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("expected bare array, got %s", rec.Body.String())
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}

	// A user with no notes gets an empty array, not null.
	rec = doRequest(t, router, http.MethodGet, "/api/v1/notes", bearerToken(t, uuid.New()), nil)
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected empty array body, got %q", body)
	}
}

func TestNoteHandler_InvalidPathID(t *testing.T) {
	router := newTestRouter(newMemNoteRepo())
	token := bearerToken(t, uuid.New())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/notes/not-a-uuid", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Errorf("expected {error} body, got %s", rec.Body.String())
	}
}

func TestNoteHandler_RejectsRefreshToken(t *testing.T) {
	router := newTestRouter(newMemNoteRepo())

	refresh, err := jwt.GenerateRefreshToken(uuid.NewString(), time.Hour, testSecret)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v1/notes", "Bearer "+refresh, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for refresh token on resource route, got %d", rec.Code)
	}
}
