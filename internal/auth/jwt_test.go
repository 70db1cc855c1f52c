package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestJWT_RoundTrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	tok, err := j.Sign(42)
	if err != nil {
		t.Fatal(err)
	}
	uid, err := j.Verify(tok)
	if err != nil || uid != 42 {
		t.Fatalf("Verify() = %d, %v", uid, err)
	}

	if _, err := NewJWT("other", time.Hour).Verify(tok); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

func TestJWT_Expired(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	j := NewJWT("secret", time.Hour)
	j.now = func() time.Time { return start }
	tok, _ := j.Sign(7)

	j.now = func() time.Time { return start.Add(2 * time.Hour) }
	if _, err := j.Verify(tok); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify(expired) = %v, want ErrTokenExpired", err)
	}
	if _, err := j.Verify("nope"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify(garbage) = %v, want ErrTokenInvalid", err)
	}
}

type rejectLog struct {
	msgs []string
}

func (l *rejectLog) Debug(string, ...any)      {}
func (l *rejectLog) Info(msg string, _ ...any) { l.msgs = append(l.msgs, msg) }
func (l *rejectLog) Warn(string, ...any)       {}
func (l *rejectLog) Error(string, ...any)      {}

func TestRequireAuth(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	j := NewJWT("secret", time.Hour)
	j.now = func() time.Time { return start }
	tok, _ := j.Sign(9)
	old := NewJWT("secret", time.Minute)
	old.now = func() time.Time { return start.Add(-time.Hour) }
	expired, _ := old.Sign(9)

	var got uint64
	logs := &rejectLog{}
	h := RequireAuth(j, logs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserIDFromContext(r.Context())
	}))

	cases := map[string]struct {
		header string
		code   int
		body   string
		logged bool
	}{
		"missing":   {"", http.StatusUnauthorized, "unauthorized", false},
		"scheme":    {"Basic " + tok, http.StatusUnauthorized, "unauthorized", false},
		"empty":     {"Bearer ", http.StatusUnauthorized, "unauthorized", false},
		"garbage":   {"Bearer nope", http.StatusUnauthorized, "unauthorized", true},
		"expired":   {"Bearer " + expired, http.StatusUnauthorized, "token expired", true},
		"valid":     {"Bearer " + tok, http.StatusOK, "", false},
		"lowercase": {"bearer " + tok, http.StatusOK, "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got = 0
			logs.msgs = nil
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.code {
				t.Errorf("status = %d, want %d", rec.Code, tc.code)
			}
			if body := strings.TrimSpace(rec.Body.String()); body != tc.body {
				t.Errorf("body = %q, want %q", body, tc.body)
			}
			if tc.code == http.StatusOK && got != 9 {
				t.Errorf("user id = %d, want 9", got)
			}
			if tc.code != http.StatusOK && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate")
			}
			if logged := len(logs.msgs) > 0; logged != tc.logged {
				t.Errorf("logged = %v, want %v", logged, tc.logged)
			}
		})
	}
}
