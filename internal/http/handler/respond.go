package handler

import (
	"encoding/json"
	"net/http"

	"inkwell/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func serverError(w http.ResponseWriter, logger logging.Logger, msg string, err error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	logger.Error(msg, "err", err)
	http.Error(w, "server error", http.StatusInternalServerError)
}
