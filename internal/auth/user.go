package auth

import "time"

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	PinHash   *string   `json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (u User) HasPIN() bool { return u.PinHash != nil }

// LoginCode is a one-time code emailed to sign in. Only the bcrypt hash is kept.
type LoginCode struct {
	ID        uint64     `gorm:"primaryKey"`
	Email     string     `gorm:"not null"`
	CodeHash  string     `gorm:"not null"`
	ExpiresAt time.Time  `gorm:"not null"`
	Attempts  int        `gorm:"not null;default:0"`
	UsedAt    *time.Time
	CreatedAt time.Time `gorm:"not null"`
}
