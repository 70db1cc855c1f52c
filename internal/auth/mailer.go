package auth

import (
	"context"

	"inkwell/internal/logging"
)

// Mailer delivers login codes.
type Mailer interface {
	SendLoginCode(ctx context.Context, email, code string) error
}

// LogMailer writes codes to the log instead of sending mail. Local use only.
type LogMailer struct {
	Logger logging.Logger
}

func (m LogMailer) SendLoginCode(_ context.Context, email, code string) error {
	l := m.Logger
	if l == nil {
		l = logging.Nop{}
	}
	l.Info("login code issued", "email", email, "code", code)
	return nil
}
