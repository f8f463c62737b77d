package handlers

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/iudanet/teamchat/internal/server/service"
	"github.com/iudanet/teamchat/pkg/api"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// requestMeta captures the client address and agent for token records.
func requestMeta(r *http.Request) service.RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return service.RequestMeta{IP: ip, UserAgent: r.UserAgent()}
}

// rawBearerToken returns the bearer token of an authenticated request.
func rawBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password, requestMeta(r))
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, api.LoginResponse{Token: token, User: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), rawBearerToken(r)); err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req api.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	if err := h.auth.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), req.Email, requestMeta(r)); err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	// Same response whether or not the address is registered.
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
