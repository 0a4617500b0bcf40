package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

type SessionHandler struct {
	timeout time.Duration
	log     *zap.Logger
}

func NewSessionHandler(timeout time.Duration, log *zap.Logger) *SessionHandler {
	return &SessionHandler{timeout: timeout, log: logger.OrNop(log)}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequestDTO struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type EmailRequestDTO struct {
	Email string `json:"email"`
}

type ResetPasswordRequestDTO struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type UserResponse struct {
	User *domain.User         `json:"user"`
	Cart *domain.CartSnapshot `json:"cart,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := getSession(r.Context())
	u, err := sess.Login(ctx, req.Email, req.Password)
	if err != nil {
		handleError(w, err)
		return
	}

	snap := sess.Cart().Snapshot()
	respondJSON(w, http.StatusOK, UserResponse{User: u, Cart: &snap})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := getSession(r.Context()).Logout(ctx); err != nil {
		// the local session is already cleared
		logger.WithContext(ctx, h.log).Warn("logout incomplete", zap.Error(err))
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}

func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := getSession(r.Context()).RequireUser()
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, UserResponse{User: u})
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	msg, err := getSession(r.Context()).Register(ctx, req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, MessageResponse{Message: msg})
}

func (h *SessionHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req EmailRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	msg, err := getSession(r.Context()).ForgotPassword(ctx, req.Email)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *SessionHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ResetPasswordRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	msg, err := getSession(r.Context()).ResetPassword(ctx, chi.URLParam(r, "token"), req.Password, req.ConfirmPassword)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *SessionHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	msg, err := getSession(r.Context()).VerifyEmail(ctx, chi.URLParam(r, "token"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *SessionHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req EmailRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	msg, err := getSession(r.Context()).ResendVerification(ctx, req.Email)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: msg})
}
