package rentlens

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPrepareUserDefaults(t *testing.T) {
	t.Parallel()

	record := &User{Email: "renter@example.test"}
	prepareUserDefaults(record)

	assert.Equal(t, RoleUser, record.Role)
	assert.Equal(t, "renter", record.Username)
	assert.NotEqual(t, uuid.Nil, record.ID)
}

func TestPrepareUserDefaultsKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	record := &User{
		ID:       id,
		Role:     RoleAdmin,
		Username: "ops",
		Email:    "ops@example.test",
	}
	prepareUserDefaults(record)

	assert.Equal(t, id, record.ID)
	assert.Equal(t, RoleAdmin, record.Role)
	assert.Equal(t, "ops", record.Username)

	prepareUserDefaults(nil)
}

func TestResolveUserIdentifierOrdersColumnsBySpecificity(t *testing.T) {
	t.Parallel()

	id := uuid.New().String()
	options := resolveUserIdentifier(id)
	assert.Equal(t, "id", options[0].column)

	options = resolveUserIdentifier("renter@example.test")
	assert.Equal(t, "email", options[0].column)
	assert.Equal(t, "username", options[len(options)-1].column)

	options = resolveUserIdentifier("renter")
	assert.Len(t, options, 1)
	assert.Equal(t, "username", options[0].column)

	assert.Empty(t, resolveUserIdentifier("   "))
}

func TestWithinWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, withinWindow(now.Add(-time.Hour), 24*time.Hour, now))
	assert.False(t, withinWindow(now.Add(-25*time.Hour), 24*time.Hour, now))
}

func TestErrorMessagePrefersTextCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TextCodeAccountBanned, errorMessage(ErrAccountBanned))
	assert.Equal(t, "plain failure", errorMessage(errors.New("plain failure")))
	assert.Empty(t, errorMessage(nil))
}

func TestMarkBannedAndUnbanned(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	u := (&User{}).MarkBanned("spam listings", now)

	assert.True(t, u.Banned)
	assert.Equal(t, "spam listings", u.BanReason)
	assert.Equal(t, now, *u.BannedAt)

	u.MarkUnbanned()
	assert.False(t, u.Banned)
	assert.Empty(t, u.BanReason)
	assert.Nil(t, u.BannedAt)
}
