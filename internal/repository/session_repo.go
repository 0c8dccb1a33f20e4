package repository

import (
	"errors"
	"sync"

	"github.com/sauceqa/logincheck/internal/models"
)

// ErrSessionNotFound is returned for unknown or deleted session tokens
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository keeps signed-in sessions in memory, keyed by token
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewSessionRepository creates an empty session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*models.Session),
	}
}

// CreateSession stores a session
func (r *SessionRepository) CreateSession(session *models.Session) error {
	if session.Token == "" {
		return errors.New("session token cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token] = session
	return nil
}

// GetSession retrieves a session by token
func (r *SessionRepository) GetSession(token string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DeleteSession removes a session. Deleting an unknown token is not an error.
func (r *SessionRepository) DeleteSession(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}
