package model

import (
	"time"

	"quizmaster/internal/auth"
)

// Session is a server-side login session addressed by the cookie token.
type Session struct {
	Token     string    `gorm:"primarykey;type:varchar(36)" json:"-"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Username  string    `json:"username" gorm:"not null"`
	Role      auth.Role `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
}

// Expired reports whether the session is past its lifetime.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
