package handler

import (
	"errors"
	"net/http"

	"inkwell/internal/auth"
	"inkwell/internal/logging"
)

type AuthHandler struct {
	Auth   *auth.Service
	JWT    *auth.JWT
	Logger logging.Logger
}

type codeReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *AuthHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req codeReq
	if !decode(w, r, &req) {
		return
	}
	if err := h.Auth.RequestCode(r.Context(), req.Email); err != nil {
		if errors.Is(err, auth.ErrInvalidEmail) {
			http.Error(w, "invalid email", http.StatusBadRequest)
			return
		}
		serverError(w, h.Logger, "request code", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "sent"})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req codeReq
	if !decode(w, r, &req) {
		return
	}
	uid, err := h.Auth.VerifyCode(r.Context(), req.Email, req.Code)
	switch {
	case errors.Is(err, auth.ErrInvalidEmail):
		http.Error(w, "invalid email", http.StatusBadRequest)
		return
	case errors.Is(err, auth.ErrInvalidCode), errors.Is(err, auth.ErrCodeExpired):
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	case errors.Is(err, auth.ErrTooManyAttempts):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
		return
	case err != nil:
		serverError(w, h.Logger, "verify code", err)
		return
	}

	token, err := h.JWT.Sign(uid)
	if err != nil {
		serverError(w, h.Logger, "sign token", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}
