package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/internal/logging"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidCode     = errors.New("invalid code")
	ErrCodeExpired     = errors.New("code expired")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrInvalidPIN      = errors.New("pin must be 4 digits")
	ErrPINNotSet       = errors.New("pin not set")
	ErrUserNotFound    = errors.New("user not found")
)

const maxCodeAttempts = 5

// Service signs users in with emailed one-time codes and guards the
// journal with an optional PIN.
type Service struct {
	DB      *gorm.DB
	Mailer  Mailer
	Logger  logging.Logger
	CodeTTL time.Duration
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) log() logging.Logger {
	if s.Logger == nil {
		return logging.Nop{}
	}
	return s.Logger
}

func (s *Service) codeTTL() time.Duration {
	if s.CodeTTL <= 0 {
		return 15 * time.Minute
	}
	return s.CodeTTL
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestCode issues a fresh login code for email and hands it to the Mailer.
func (s *Service) RequestCode(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	code, err := newCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	hash, err := HashSecret(code)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	now := s.now()
	lc := LoginCode{Email: email, CodeHash: hash, ExpiresAt: now.Add(s.codeTTL()), CreatedAt: now}
	if err := s.DB.WithContext(ctx).Create(&lc).Error; err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	if err := s.Mailer.SendLoginCode(ctx, email, code); err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	s.log().Debug("login code requested", "email", email)
	return nil
}

// VerifyCode checks code against the newest unused code for email and
// returns the user id, creating the user on first sign-in.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (uint64, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return 0, err
	}
	now := s.now()

	var (
		uid       uint64
		verifyErr error
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lc LoginCode
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ? AND used_at IS NULL", email).
			Order("created_at desc, id desc").
			First(&lc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				verifyErr = ErrInvalidCode
				return nil
			}
			return err
		}

		switch {
		case !now.Before(lc.ExpiresAt):
			verifyErr = ErrCodeExpired
			return nil
		case lc.Attempts >= maxCodeAttempts:
			verifyErr = ErrTooManyAttempts
			return nil
		}

		if !CompareSecret(lc.CodeHash, code) {
			// the attempt must be counted, so commit and report outside the tx
			verifyErr = ErrInvalidCode
			return tx.Model(&lc).Update("attempts", gorm.Expr("attempts + 1")).Error
		}

		if err := tx.Model(&lc).Update("used_at", now).Error; err != nil {
			return err
		}

		u := User{Email: email}
		if err := tx.Where(User{Email: email}).Attrs(User{CreatedAt: now}).FirstOrCreate(&u).Error; err != nil {
			return err
		}
		uid = u.ID
		return nil
	})
	if err != nil {
		s.log().Error("verify code failed", "email", email, "err", err)
		return 0, fmt.Errorf("verify code: %w", err)
	}
	if verifyErr != nil {
		s.log().Debug("login code rejected", "email", email, "reason", verifyErr)
		return 0, verifyErr
	}
	return uid, nil
}

func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}

func (s *Service) User(ctx context.Context, userID uint64) (User, error) {
	var u User
	if err := s.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *Service) SetPIN(ctx context.Context, userID uint64, pin string) error {
	if !validPIN(pin) {
		return ErrInvalidPIN
	}
	hash, err := HashSecret(pin)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	res := s.DB.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("pin_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("set pin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Service) VerifyPIN(ctx context.Context, userID uint64, pin string) (bool, error) {
	u, err := s.User(ctx, userID)
	if err != nil {
		return false, err
	}
	if !u.HasPIN() {
		return false, ErrPINNotSet
	}
	return CompareSecret(*u.PinHash, pin), nil
}

