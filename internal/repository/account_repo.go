package repository

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sauceqa/logincheck/internal/models"
)

// Repository errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// AccountRepository keeps the fixture site's accounts in memory
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
}

// NewAccountRepository creates an empty account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*models.Account),
	}
}

// NewDemoAccountRepository creates a repository seeded with the demo accounts
func NewDemoAccountRepository() *AccountRepository {
	repo := NewAccountRepository()
	for _, account := range models.DemoAccounts() {
		repo.accounts[account.Username] = account
	}
	return repo
}

// CreateAccount stores a new account
func (r *AccountRepository) CreateAccount(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Username]; ok {
		return fmt.Errorf("failed to create account %s: %w", account.Username, ErrAccountExists)
	}

	stored := *account
	r.accounts[account.Username] = &stored
	return nil
}

// GetAccount retrieves an account by username
func (r *AccountRepository) GetAccount(username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[username]
	if !ok {
		return nil, ErrAccountNotFound
	}

	found := *account
	return &found, nil
}
