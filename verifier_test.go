package rentlens_test

import (
	"context"
	"testing"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/rentlens/rentlens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserTracker implements rentlens.UserTracker
type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*rentlens.User, error) {
	args := m.Called(ctx, identifier)
	var user *rentlens.User
	if v := args.Get(0); v != nil {
		user = v.(*rentlens.User)
	}
	return user, args.Error(1)
}

func (m *MockUserTracker) TrackAttemptedLogin(ctx context.Context, user *rentlens.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserTracker) TrackSuccessfulLogin(ctx context.Context, user *rentlens.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func hashedUser(t *testing.T, secret string) *rentlens.User {
	t.Helper()

	hash, err := rentlens.HashPassword(secret)
	require.NoError(t, err)

	created := time.Date(2025, time.June, 10, 8, 30, 0, 0, time.UTC)

	return &rentlens.User{
		ID:           uuid.New(),
		Username:     "renter",
		Email:        "renter@example.test",
		DisplayName:  "Renter",
		Role:         rentlens.RoleUser,
		PasswordHash: hash,
		Confirmed:    true,
		CreatedAt:    &created,
	}
}

func TestVerifyIdentityReturnsNotFoundForUnknownUser(t *testing.T) {
	tracker := &MockUserTracker{}
	tracker.On("GetByIdentifier", mock.Anything, "ghost").
		Return(nil, repository.NewRecordNotFound()).Once()

	v := rentlens.NewVerifier(tracker)

	_, err := v.VerifyIdentity(context.Background(), "ghost", "whatever")
	require.Error(t, err)
	assert.ErrorIs(t, err, rentlens.ErrIdentityNotFound)
}

func TestVerifyIdentityRejectsWrongPasswordAndTracksAttempt(t *testing.T) {
	user := hashedUser(t, "sekret-pass")

	tracker := &MockUserTracker{}
	tracker.On("GetByIdentifier", mock.Anything, "renter").Return(user, nil).Once()
	tracker.On("TrackAttemptedLogin", mock.Anything, user).Return(nil).Once()

	v := rentlens.NewVerifier(tracker)

	_, err := v.VerifyIdentity(context.Background(), "renter", "wrong")
	require.Error(t, err)
	assert.True(t, rentlens.IsInvalidCredentials(err))
	tracker.AssertExpectations(t)
}

func TestVerifyIdentityBannedFailsEvenWithCorrectPassword(t *testing.T) {
	user := hashedUser(t, "sekret-pass")
	user.Banned = true

	tracker := &MockUserTracker{}
	tracker.On("GetByIdentifier", mock.Anything, "renter").Return(user, nil).Once()

	v := rentlens.NewVerifier(tracker)

	_, err := v.VerifyIdentity(context.Background(), "renter", "sekret-pass")
	require.Error(t, err)
	assert.True(t, rentlens.IsAccountBanned(err))
	tracker.AssertNotCalled(t, "TrackAttemptedLogin", mock.Anything, mock.Anything)
	tracker.AssertNotCalled(t, "TrackSuccessfulLogin", mock.Anything, mock.Anything)
}

func TestVerifyIdentityRequiresConfirmedAccount(t *testing.T) {
	user := hashedUser(t, "sekret-pass")
	user.Confirmed = false

	tracker := &MockUserTracker{}
	tracker.On("GetByIdentifier", mock.Anything, "renter").Return(user, nil).Once()

	v := rentlens.NewVerifier(tracker)

	_, err := v.VerifyIdentity(context.Background(), "renter", "sekret-pass")
	require.Error(t, err)
	assert.True(t, rentlens.IsConfirmationRequired(err))
}

func TestVerifyIdentitySuccessReturnsIdentity(t *testing.T) {
	user := hashedUser(t, "sekret-pass")

	tracker := &MockUserTracker{}
	tracker.On("GetByIdentifier", mock.Anything, "renter").Return(user, nil).Once()
	tracker.On("TrackSuccessfulLogin", mock.Anything, user).Return(nil).Once()

	v := rentlens.NewVerifier(tracker)

	identity, err := v.VerifyIdentity(context.Background(), "renter", "sekret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, "renter", identity.Username())
	assert.Equal(t, "Renter", identity.DisplayName())
	assert.Equal(t, rentlens.RoleUser, identity.Role())
	assert.False(t, identity.IsBanned())
	assert.Equal(t, *user.CreatedAt, identity.CreatedAt())
	tracker.AssertExpectations(t)
}

func TestVerifyIdentityEnforcesAttemptCooldown(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)

	user := hashedUser(t, "sekret-pass")
	user.LoginAttempts = rentlens.MaxLoginAttempts + 1
	user.LoginAttemptAt = &recent

	tracker := &MockUserTracker{}
	tracker.On("GetByIdentifier", mock.Anything, "renter").Return(user, nil).Once()

	v := rentlens.NewVerifier(tracker).WithClock(func() time.Time { return now })

	_, err := v.VerifyIdentity(context.Background(), "renter", "sekret-pass")
	require.Error(t, err)
	assert.ErrorIs(t, err, rentlens.ErrTooManyLoginAttempts)
}

func TestVerifyIdentityResetsAttemptsAfterCooldownExpires(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-rentlens.CoolDownWindow - time.Hour)

	user := hashedUser(t, "sekret-pass")
	user.LoginAttempts = rentlens.MaxLoginAttempts + 3
	user.LoginAttemptAt = &stale

	tracker := &MockUserTracker{}
	tracker.On("GetByIdentifier", mock.Anything, "renter").Return(user, nil).Once()
	tracker.On("TrackSuccessfulLogin", mock.Anything, user).Return(nil).Once()

	v := rentlens.NewVerifier(tracker).WithClock(func() time.Time { return now })

	_, err := v.VerifyIdentity(context.Background(), "renter", "sekret-pass")
	require.NoError(t, err)
	tracker.AssertExpectations(t)
}

func TestFindIdentityByIDRejectsBannedUser(t *testing.T) {
	user := hashedUser(t, "sekret-pass")
	user.Banned = true

	tracker := &MockUserTracker{}
	tracker.On("GetByIdentifier", mock.Anything, user.ID.String()).Return(user, nil).Once()

	v := rentlens.NewVerifier(tracker)

	_, err := v.FindIdentityByID(context.Background(), user.ID.String())
	require.Error(t, err)
	assert.True(t, rentlens.IsAccountBanned(err))
}

func TestFindIdentityByIDReturnsIdentity(t *testing.T) {
	user := hashedUser(t, "sekret-pass")

	tracker := &MockUserTracker{}
	tracker.On("GetByIdentifier", mock.Anything, user.ID.String()).Return(user, nil).Once()

	v := rentlens.NewVerifier(tracker)

	identity, err := v.FindIdentityByID(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), identity.ID())
}
