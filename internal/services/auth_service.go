package services

import (
	"errors"
	"fmt"

	"github.com/sauceqa/logincheck/internal/models"
	"github.com/sauceqa/logincheck/internal/repository"
)

// AccountRepository defines the interface for account lookup
type AccountRepository interface {
	GetAccount(username string) (*models.Account, error)
}

// SessionRepository defines the interface for session persistence
type SessionRepository interface {
	CreateSession(session *models.Session) error
	GetSession(token string) (*models.Session, error)
	DeleteSession(token string) error
}

// AuthService handles sign-in for the fixture site
type AuthService interface {
	Login(creds models.Credentials) (*models.Session, error)
	Session(token string) (*models.Session, error)
	Logout(token string) error
}

// AuthServiceImpl implements AuthService
type AuthServiceImpl struct {
	accounts AccountRepository
	sessions SessionRepository
}

// NewAuthService creates a new auth service
func NewAuthService(accounts AccountRepository, sessions SessionRepository) AuthService {
	return &AuthServiceImpl{
		accounts: accounts,
		sessions: sessions,
	}
}

// Login validates the credentials and opens a session. The returned error is
// one of the models login errors when the page should render a message.
func (s *AuthServiceImpl) Login(creds models.Credentials) (*models.Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetAccount(creds.Username)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, models.ErrCredentialsMismatch
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := account.Authenticate(creds.Password); err != nil {
		return nil, err
	}

	session, err := models.NewSession(account.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	if err := s.sessions.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// Session returns the session for a token
func (s *AuthServiceImpl) Session(token string) (*models.Session, error) {
	if token == "" {
		return nil, repository.ErrSessionNotFound
	}
	session, err := s.sessions.GetSession(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// Logout closes the session for a token
func (s *AuthServiceImpl) Logout(token string) error {
	if err := s.sessions.DeleteSession(token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// IsLoginError reports whether err carries a message the login page displays
func IsLoginError(err error) bool {
	return errors.Is(err, models.ErrUsernameRequired) ||
		errors.Is(err, models.ErrPasswordRequired) ||
		errors.Is(err, models.ErrCredentialsMismatch) ||
		errors.Is(err, models.ErrLockedOut)
}
