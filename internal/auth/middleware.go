package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"inkwell/internal/logging"
)

type ctxKey struct{}

// UserIDFromContext returns the user authenticated by RequireAuth.
func UserIDFromContext(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(ctxKey{}).(uint64)
	return id, ok && id != 0
}

// bearerToken extracts the token of an "Authorization: Bearer" header.
// The scheme is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth rejects requests without a valid session token with 401.
// An expired token is answered with "token expired" so clients know to
// sign in again rather than retry.
func RequireAuth(j *JWT, logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Nop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="inkwell"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			uid, err := j.Verify(token)
			if err != nil {
				msg := "unauthorized"
				if errors.Is(err, ErrTokenExpired) {
					msg = ErrTokenExpired.Error()
				}
				logger.Info("token rejected",
					"req_id", middleware.GetReqID(r.Context()),
					"path", r.URL.Path,
					"err", err,
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="inkwell", error="invalid_token"`)
				http.Error(w, msg, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, uid)))
		})
	}
}
