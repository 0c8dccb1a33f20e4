package models

import (
	"errors"
	"fmt"
	"strings"
)

// The login page only ever shows one of these messages.
const (
	MessageCredentialsMismatch = "Epic sadface: Username and password do not match any user in this service"
	MessageLockedOut           = "Epic sadface: Sorry, this user has been locked out."
	MessageUsernameRequired    = "Epic sadface: Username is required"
	MessagePasswordRequired    = "Epic sadface: Password is required"
)

// Domain errors. Their text is exactly what the login page renders.
var (
	ErrUsernameRequired    = errors.New(MessageUsernameRequired)
	ErrPasswordRequired    = errors.New(MessagePasswordRequired)
	ErrCredentialsMismatch = errors.New(MessageCredentialsMismatch)
	ErrLockedOut           = errors.New(MessageLockedOut)
)

// Errors returned when building accounts
var (
	ErrInvalidUsername = errors.New("account username cannot be empty or contain whitespace")
	ErrInvalidPassword = errors.New("account password cannot be empty")
	ErrInvalidStatus   = errors.New("invalid account status")
)

// Messages returns the fixed set of login error messages, in display precedence order.
func Messages() []string {
	return []string{
		MessageUsernameRequired,
		MessagePasswordRequired,
		MessageCredentialsMismatch,
		MessageLockedOut,
	}
}

// IsKnownMessage reports whether msg is one of the fixed login error messages.
func IsKnownMessage(msg string) bool {
	for _, known := range Messages() {
		if msg == known {
			return true
		}
	}
	return false
}

// Credentials is a username/password pair as typed into the login form.
// Either value may be empty.
type Credentials struct {
	Username string
	Password string
}

// Validate checks the presence rules the login form enforces before any lookup.
func (c Credentials) Validate() error {
	if c.Username == "" {
		return ErrUsernameRequired
	}
	if c.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// AccountStatus represents whether an account may sign in
type AccountStatus string

// Account statuses
const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusLockedOut AccountStatus = "locked_out"
)

// Account is a demo-site user
type Account struct {
	Username string
	Password string
	Status   AccountStatus
}

// NewAccount creates a new account with validation
func NewAccount(username, password string, status AccountStatus) (*Account, error) {
	if username == "" || strings.ContainsAny(username, " \t\r\n") {
		return nil, ErrInvalidUsername
	}
	if password == "" {
		return nil, ErrInvalidPassword
	}
	switch status {
	case AccountStatusActive, AccountStatusLockedOut:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	return &Account{
		Username: username,
		Password: password,
		Status:   status,
	}, nil
}

// Authenticate checks the password first and the lock second, so a locked
// account with a wrong password reports a mismatch.
func (a *Account) Authenticate(password string) error {
	if a.Password != password {
		return ErrCredentialsMismatch
	}
	if a.IsLockedOut() {
		return ErrLockedOut
	}
	return nil
}

// IsLockedOut returns true if the account cannot sign in
func (a *Account) IsLockedOut() bool {
	return a.Status == AccountStatusLockedOut
}

// DemoPassword is shared by every demo account.
const DemoPassword = "secret_sauce"

// DemoAccounts returns the accounts the demo site advertises on its login page.
func DemoAccounts() []*Account {
	usernames := []struct {
		name   string
		status AccountStatus
	}{
		{"standard_user", AccountStatusActive},
		{"locked_out_user", AccountStatusLockedOut},
		{"problem_user", AccountStatusActive},
		{"performance_glitch_user", AccountStatusActive},
		{"error_user", AccountStatusActive},
		{"visual_user", AccountStatusActive},
	}

	accounts := make([]*Account, 0, len(usernames))
	for _, u := range usernames {
		accounts = append(accounts, &Account{
			Username: u.name,
			Password: DemoPassword,
			Status:   u.status,
		})
	}
	return accounts
}
