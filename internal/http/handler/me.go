package handler

import (
	"errors"
	"net/http"

	"inkwell/internal/auth"
	"inkwell/internal/logging"
)

type MeHandler struct {
	Auth   *auth.Service
	Logger logging.Logger
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	u, err := h.Auth.User(r.Context(), uid)
	if errors.Is(err, auth.ErrUserNotFound) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err != nil {
		serverError(w, h.Logger, "load user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": u.ID,
		"email":   u.Email,
		"has_pin": u.HasPIN(),
	})
}

type pinReq struct {
	PIN string `json:"pin"`
}

func (h *MeHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var req pinReq
	if !decode(w, r, &req) {
		return
	}
	err := h.Auth.SetPIN(r.Context(), uid, req.PIN)
	switch {
	case errors.Is(err, auth.ErrInvalidPIN):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrUserNotFound):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case err != nil:
		serverError(w, h.Logger, "set pin", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *MeHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var req pinReq
	if !decode(w, r, &req) {
		return
	}
	ok, err := h.Auth.VerifyPIN(r.Context(), uid, req.PIN)
	switch {
	case errors.Is(err, auth.ErrPINNotSet):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, auth.ErrUserNotFound):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case err != nil:
		serverError(w, h.Logger, "verify pin", err)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"ok": ok})
	}
}
