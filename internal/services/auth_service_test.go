package services

import (
	"errors"
	"testing"

	"github.com/sauceqa/logincheck/internal/models"
	"github.com/sauceqa/logincheck/internal/repository"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	GetAccountFunc func(string) (*models.Account, error)
}

func (m *MockAccountRepository) GetAccount(username string) (*models.Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(username)
	}
	return nil, repository.ErrAccountNotFound
}

// MockSessionRepository is a mock implementation of SessionRepository for testing
type MockSessionRepository struct {
	CreateSessionFunc func(*models.Session) error
	GetSessionFunc    func(string) (*models.Session, error)
	DeleteSessionFunc func(string) error
}

func (m *MockSessionRepository) CreateSession(session *models.Session) error {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(session)
	}
	return nil
}

func (m *MockSessionRepository) GetSession(token string) (*models.Session, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(token)
	}
	return nil, repository.ErrSessionNotFound
}

func (m *MockSessionRepository) DeleteSession(token string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(token)
	}
	return nil
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name    string
		creds   models.Credentials
		wantErr error
	}{
		{"valid login", models.Credentials{Username: "standard_user", Password: "secret_sauce"}, nil},
		{"invalid credentials", models.Credentials{Username: "invalid_user", Password: "wrong_password"}, models.ErrCredentialsMismatch},
		{"wrong password", models.Credentials{Username: "standard_user", Password: "wrong_password"}, models.ErrCredentialsMismatch},
		{"locked out", models.Credentials{Username: "locked_out_user", Password: "secret_sauce"}, models.ErrLockedOut},
		{"empty username and password", models.Credentials{}, models.ErrUsernameRequired},
		{"empty password", models.Credentials{Username: "standard_user"}, models.ErrPasswordRequired},
		{"empty username", models.Credentials{Password: "secret_sauce"}, models.ErrUsernameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := repository.NewSessionRepository()
			service := NewAuthService(repository.NewDemoAccountRepository(), sessions)

			session, err := service.Login(tt.creds)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				if !IsLoginError(err) {
					t.Errorf("expected %v to be a login error", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := sessions.GetSession(session.Token); err != nil {
				t.Errorf("session was not stored: %v", err)
			}
		})
	}
}

func TestAuthService_Login_RepositoryErrors(t *testing.T) {
	t.Run("account lookup failure", func(t *testing.T) {
		lookupErr := errors.New("lookup failed")
		service := NewAuthService(&MockAccountRepository{
			GetAccountFunc: func(string) (*models.Account, error) { return nil, lookupErr },
		}, &MockSessionRepository{})

		_, err := service.Login(models.Credentials{Username: "standard_user", Password: "secret_sauce"})
		if !errors.Is(err, lookupErr) {
			t.Errorf("expected wrapped lookup error, got %v", err)
		}
		if IsLoginError(err) {
			t.Error("infrastructure errors must not be treated as login errors")
		}
	})

	t.Run("session store failure", func(t *testing.T) {
		storeErr := errors.New("store failed")
		service := NewAuthService(repository.NewDemoAccountRepository(), &MockSessionRepository{
			CreateSessionFunc: func(*models.Session) error { return storeErr },
		})

		_, err := service.Login(models.Credentials{Username: "standard_user", Password: "secret_sauce"})
		if !errors.Is(err, storeErr) {
			t.Errorf("expected wrapped store error, got %v", err)
		}
	})
}

func TestAuthService_SessionAndLogout(t *testing.T) {
	service := NewAuthService(repository.NewDemoAccountRepository(), repository.NewSessionRepository())

	session, err := service.Login(models.Credentials{Username: "standard_user", Password: "secret_sauce"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	got, err := service.Session(session.Token)
	if err != nil {
		t.Fatalf("session lookup failed: %v", err)
	}
	if got.Username != "standard_user" {
		t.Errorf("expected standard_user, got %s", got.Username)
	}

	if err := service.Logout(session.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := service.Session(session.Token); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.Session(""); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for empty token, got %v", err)
	}
}
