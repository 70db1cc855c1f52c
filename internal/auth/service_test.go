package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/testutil"
)

type captureMailer struct {
	codes map[string]string
}

func (m *captureMailer) SendLoginCode(_ context.Context, email, code string) error {
	m.codes[email] = code
	return nil
}

func newService(t *testing.T) (*auth.Service, *captureMailer, *testutil.StubClock) {
	t.Helper()
	clock := testutil.FixedClock()
	mailer := &captureMailer{codes: map[string]string{}}
	return &auth.Service{
		DB:      testutil.NewTestDB(t),
		Mailer:  mailer,
		CodeTTL: 15 * time.Minute,
		Now:     clock.Now,
	}, mailer, clock
}

// wrong returns a 6-digit code different from code.
func wrong(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestVerifyCode_SignsUpOnce(t *testing.T) {
	ctx := context.Background()
	svc, mailer, _ := newService(t)

	if err := svc.RequestCode(ctx, "  Ana@Example.com "); err != nil {
		t.Fatalf("RequestCode() error = %v", err)
	}
	code := mailer.codes["ana@example.com"]
	if len(code) != 6 {
		t.Fatalf("code = %q, want 6 digits", code)
	}

	uid, err := svc.VerifyCode(ctx, "ana@example.com", code)
	if err != nil || uid == 0 {
		t.Fatalf("VerifyCode() = %d, %v", uid, err)
	}

	// codes are single use
	if _, err := svc.VerifyCode(ctx, "ana@example.com", code); !errors.Is(err, auth.ErrInvalidCode) {
		t.Errorf("reused code error = %v, want ErrInvalidCode", err)
	}

	svc.RequestCode(ctx, "ana@example.com")
	again, err := svc.VerifyCode(ctx, "ana@example.com", mailer.codes["ana@example.com"])
	if err != nil || again != uid {
		t.Errorf("second sign-in = %d, %v; want %d", again, err, uid)
	}
}

func TestVerifyCode_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid email", func(t *testing.T) {
		svc, _, _ := newService(t)
		if err := svc.RequestCode(ctx, "nobody"); !errors.Is(err, auth.ErrInvalidEmail) {
			t.Errorf("error = %v, want ErrInvalidEmail", err)
		}
	})

	t.Run("no code issued", func(t *testing.T) {
		svc, _, _ := newService(t)
		if _, err := svc.VerifyCode(ctx, "a@b.c", "123456"); !errors.Is(err, auth.ErrInvalidCode) {
			t.Errorf("error = %v, want ErrInvalidCode", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		svc, mailer, clock := newService(t)
		svc.RequestCode(ctx, "a@b.c")
		clock.Advance(15 * time.Minute)
		if _, err := svc.VerifyCode(ctx, "a@b.c", mailer.codes["a@b.c"]); !errors.Is(err, auth.ErrCodeExpired) {
			t.Errorf("error = %v, want ErrCodeExpired", err)
		}
	})

	t.Run("too many attempts", func(t *testing.T) {
		svc, mailer, _ := newService(t)
		svc.RequestCode(ctx, "a@b.c")
		code := mailer.codes["a@b.c"]
		for i := 0; i < 5; i++ {
			if _, err := svc.VerifyCode(ctx, "a@b.c", wrong(code)); !errors.Is(err, auth.ErrInvalidCode) {
				t.Fatalf("attempt %d error = %v", i, err)
			}
		}
		if _, err := svc.VerifyCode(ctx, "a@b.c", code); !errors.Is(err, auth.ErrTooManyAttempts) {
			t.Errorf("error = %v, want ErrTooManyAttempts", err)
		}
	})
}

func TestPIN(t *testing.T) {
	ctx := context.Background()
	svc, mailer, _ := newService(t)
	svc.RequestCode(ctx, "pin@example.com")
	uid, err := svc.VerifyCode(ctx, "pin@example.com", mailer.codes["pin@example.com"])
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.VerifyPIN(ctx, uid, "1234"); !errors.Is(err, auth.ErrPINNotSet) {
		t.Errorf("VerifyPIN before set error = %v, want ErrPINNotSet", err)
	}

	for _, bad := range []string{"", "123", "12345", "12a4", "١٢٣٤"} {
		if err := svc.SetPIN(ctx, uid, bad); !errors.Is(err, auth.ErrInvalidPIN) {
			t.Errorf("SetPIN(%q) error = %v, want ErrInvalidPIN", bad, err)
		}
	}

	if err := svc.SetPIN(ctx, uid, "0420"); err != nil {
		t.Fatalf("SetPIN() error = %v", err)
	}
	if ok, err := svc.VerifyPIN(ctx, uid, "0420"); !ok || err != nil {
		t.Errorf("VerifyPIN(correct) = %v, %v", ok, err)
	}
	if ok, _ := svc.VerifyPIN(ctx, uid, "0421"); ok {
		t.Error("VerifyPIN(wrong) = true")
	}
	if u, err := svc.User(ctx, uid); err != nil || !u.HasPIN() {
		t.Errorf("User() = %+v, %v; want a PIN set", u, err)
	}

	if err := svc.SetPIN(ctx, uid+100, "1111"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Errorf("SetPIN(unknown user) error = %v", err)
	}
}
