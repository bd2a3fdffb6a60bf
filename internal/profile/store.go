// Package profile keeps user accounts and saved profiles in memory. Nothing
// survives a restart.
package profile

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"formassist/pkg/models"
)

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrProfileNotFound = errors.New("profile not found")
	ErrMissingEmail    = errors.New("email is required")
)

type account struct {
	name         string
	passwordHash []byte
}

// Store holds accounts and profiles keyed by email address.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]account
	profiles map[string]models.UserProfile
	cost     int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]account),
		profiles: make(map[string]models.UserProfile),
		cost:     bcrypt.DefaultCost,
	}
}

// Register creates an account and an initial profile carrying the user's name.
func (s *Store) Register(email, password, name string) error {
	key := normalize(email)
	if key == "" {
		return ErrMissingEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[key]; ok {
		return ErrUserExists
	}
	s.accounts[key] = account{name: name, passwordHash: hash}
	s.profiles[key] = models.UserProfile{
		Email:     key,
		Name:      name,
		Documents: map[string]interface{}{},
	}
	return nil
}

// Authenticate checks the password and returns the stored profile.
func (s *Store) Authenticate(email, password string) (models.UserProfile, error) {
	key := normalize(email)

	s.mu.RLock()
	acct, ok := s.accounts[key]
	profile := s.profiles[key]
	s.mu.RUnlock()

	if !ok {
		return models.UserProfile{}, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return models.UserProfile{}, ErrInvalidPassword
	}
	if profile.Email == "" {
		profile = models.UserProfile{Email: key, Name: acct.name}
	}
	return profile, nil
}

// SaveProfile stores p under email, replacing any previous profile.
// Profiles may be saved without a registered account.
func (s *Store) SaveProfile(email string, p models.UserProfile) error {
	key := normalize(email)
	if key == "" {
		return ErrMissingEmail
	}
	p.Email = key
	if p.Documents == nil {
		p.Documents = map[string]interface{}{}
	}

	s.mu.Lock()
	s.profiles[key] = p
	s.mu.Unlock()
	return nil
}

// Profile returns the profile saved under email.
func (s *Store) Profile(email string) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[normalize(email)]
	if !ok {
		return models.UserProfile{}, ErrProfileNotFound
	}
	return p, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
