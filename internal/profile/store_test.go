package profile

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"formassist/pkg/models"
)

func newTestStore() *Store {
	s := NewStore()
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.Register("Asha@Example.com ", "s3cret", "Asha"))
	assert.ErrorIs(t, s.Register("asha@example.com", "other", "Asha"), ErrUserExists)

	p, err := s.Authenticate("asha@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", p.Email)
	assert.Equal(t, "Asha", p.Name)

	_, err = s.Authenticate("asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = s.Authenticate("nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegister_MissingEmail(t *testing.T) {
	assert.ErrorIs(t, newTestStore().Register("  ", "pw", "x"), ErrMissingEmail)
}

func TestSaveAndGetProfile(t *testing.T) {
	s := newTestStore()

	_, err := s.Profile("ravi@example.com")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	require.NoError(t, s.SaveProfile("ravi@example.com", models.UserProfile{Name: "Ravi", Phone: "9876543210"}))

	p, err := s.Profile("RAVI@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", p.Email)
	assert.Equal(t, "9876543210", p.Phone)
	assert.NotNil(t, p.Documents)
}

func TestAuthenticate_ReturnsSavedProfile(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Register("meera@example.com", "pw", "Meera"))
	require.NoError(t, s.SaveProfile("meera@example.com", models.UserProfile{Name: "Meera Nair", Address: "Kochi"}))

	p, err := s.Authenticate("meera@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Meera Nair", p.Name)
	assert.Equal(t, "Kochi", p.Address)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@example.com", i)
			assert.NoError(t, s.SaveProfile(email, models.UserProfile{Name: email}))
			_, err := s.Profile(email)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
