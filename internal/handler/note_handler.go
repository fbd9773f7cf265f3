package handler

import (
	"encoding/json"
	"net/http"

	"notes-server/internal/domain"
	"notes-server/internal/middleware"
	"notes-server/internal/service"
	"notes-server/internal/validation"
	"notes-server/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type NoteHandler struct {
	service  *service.NoteService
	pipeline *validation.Pipeline
}

func NewNoteHandler(service *service.NoteService, pipeline *validation.Pipeline) *NoteHandler {
	return &NoteHandler{
		service:  service,
		pipeline: pipeline,
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request payload")
		return
	}
	req.UserID = middleware.GetUserID(r)

	if err := h.pipeline.Run(&req); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, domain.CreateNoteResponse{ID: id})
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	req := domain.GetNoteListRequest{UserID: middleware.GetUserID(r)}

	if err := h.pipeline.Run(&req); err != nil {
		writeError(w, r, err)
		return
	}

	notes, err := h.service.List(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req := domain.GetNoteDetailsRequest{
		ID:     id,
		UserID: middleware.GetUserID(r),
	}

	if err := h.pipeline.Run(&req); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.service.GetByID(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, note)
}

// Update reads the target id from the body, not the path.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request payload")
		return
	}
	req.UserID = middleware.GetUserID(r)

	if err := h.pipeline.Run(&req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Update(r.Context(), &req); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req := domain.DeleteNoteRequest{
		ID:     id,
		UserID: middleware.GetUserID(r),
	}

	if err := h.pipeline.Run(&req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), &req); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "invalid note id")
		return uuid.Nil, false
	}
	return id, true
}
