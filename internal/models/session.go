package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidSessionUser is returned when a session is opened without a username
var ErrInvalidSessionUser = errors.New("session username cannot be empty")

// Session represents a signed-in browser
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
}

// NewSession creates a session with a fresh random token
func NewSession(username string) (*Session, error) {
	if username == "" {
		return nil, ErrInvalidSessionUser
	}

	return &Session{
		Token:     uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now(),
	}, nil
}
