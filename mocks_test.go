package rentlens_test

import (
	"context"
	"time"

	"github.com/rentlens/rentlens"
	"github.com/stretchr/testify/mock"
)

// MockVerifier implements rentlens.CredentialVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyIdentity(ctx context.Context, identifier, secret string) (rentlens.Identity, error) {
	args := m.Called(ctx, identifier, secret)
	var identity rentlens.Identity
	if v := args.Get(0); v != nil {
		identity = v.(rentlens.Identity)
	}
	return identity, args.Error(1)
}

func (m *MockVerifier) FindIdentityByID(ctx context.Context, id string) (rentlens.Identity, error) {
	args := m.Called(ctx, id)
	var identity rentlens.Identity
	if v := args.Get(0); v != nil {
		identity = v.(rentlens.Identity)
	}
	return identity, args.Error(1)
}

// MockRegistrar implements rentlens.AccountRegistrerer
type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) RegisterUser(ctx context.Context, msg rentlens.RegisterUserMessage) (*rentlens.User, error) {
	args := m.Called(ctx, msg)
	var user *rentlens.User
	if v := args.Get(0); v != nil {
		user = v.(*rentlens.User)
	}
	return user, args.Error(1)
}

// memStore is an in-memory SessionStore for machine tests. Save/Read/Clear
// counts let tests assert on exactly which calls happened.
type memStore struct {
	userID string
	saves  int
	reads  int
	clears int

	saveErr  error
	readErr  error
	clearErr error
}

func (s *memStore) Save(userID string) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.userID = userID
	return nil
}

func (s *memStore) Read() (string, error) {
	s.reads++
	if s.readErr != nil {
		return "", s.readErr
	}
	if s.userID == "" {
		return "", rentlens.ErrSessionNotFound
	}
	return s.userID, nil
}

func (s *memStore) Clear() error {
	s.clears++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.userID = ""
	return nil
}

// testIdentity is a plain Identity value for state assertions.
type testIdentity struct {
	id          string
	username    string
	email       string
	displayName string
	role        rentlens.UserRole
	banned      bool
	createdAt   time.Time
}

func (t testIdentity) ID() string              { return t.id }
func (t testIdentity) Username() string        { return t.username }
func (t testIdentity) Email() string           { return t.email }
func (t testIdentity) DisplayName() string     { return t.displayName }
func (t testIdentity) Role() rentlens.UserRole { return t.role }
func (t testIdentity) IsBanned() bool          { return t.banned }
func (t testIdentity) CreatedAt() time.Time    { return t.createdAt }

func userIdentity(id string) testIdentity {
	return testIdentity{
		id:          id,
		username:    "renter",
		email:       "renter@example.test",
		displayName: "Renter One",
		role:        rentlens.RoleUser,
		createdAt:   time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func adminIdentity(id string) testIdentity {
	return testIdentity{
		id:          id,
		username:    "ops",
		email:       "ops@example.test",
		displayName: "Ops Admin",
		role:        rentlens.RoleAdmin,
		createdAt:   time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC),
	}
}
