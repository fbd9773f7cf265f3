package handler

import (
	"encoding/json"
	"net/http"

	"notes-server/internal/domain"
	"notes-server/internal/service"
	"notes-server/internal/validation"
	"notes-server/pkg/response"
)

type AuthHandler struct {
	authService *service.AuthService
	pipeline    *validation.Pipeline
}

func NewAuthHandler(authService *service.AuthService, pipeline *validation.Pipeline) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		pipeline:    pipeline,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request payload")
		return
	}

	if err := h.pipeline.Run(&req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.authService.Register(r.Context(), &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, map[string]string{
		"message": "user registered successfully",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request payload")
		return
	}

	if err := h.pipeline.Run(&req); err != nil {
		writeError(w, r, err)
		return
	}

	loginResp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, loginResp)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request payload")
		return
	}

	if err := h.pipeline.Run(&req); err != nil {
		writeError(w, r, err)
		return
	}

	tokenResp, err := h.authService.RefreshToken(&req)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, tokenResp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; logout is the client discarding them.
	response.JSON(w, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}
