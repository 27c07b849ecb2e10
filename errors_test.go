package rentlens_test

import (
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/rentlens/rentlens"
	"github.com/stretchr/testify/assert"
)

func TestBannedDetectionIsTyped(t *testing.T) {
	assert.True(t, rentlens.IsAccountBanned(rentlens.ErrAccountBanned))

	wrapped := goerrors.Wrap(rentlens.ErrAccountBanned, goerrors.CategoryAuth, "sign-in failed").
		WithTextCode(rentlens.TextCodeAccountBanned)
	assert.True(t, rentlens.IsAccountBanned(wrapped))

	// Matching on message text must never be enough.
	impostor := errors.New("ACCOUNT_BANNED")
	assert.False(t, rentlens.IsAccountBanned(impostor))
}

func TestErrorHelpersDistinguishFailures(t *testing.T) {
	assert.True(t, rentlens.IsInvalidCredentials(rentlens.ErrInvalidCredentials))
	assert.False(t, rentlens.IsInvalidCredentials(rentlens.ErrAccountBanned))

	assert.True(t, rentlens.IsConfirmationRequired(rentlens.ErrConfirmationRequired))
	assert.False(t, rentlens.IsConfirmationRequired(rentlens.ErrInvalidCredentials))

	assert.True(t, rentlens.IsValidationError(rentlens.ErrNoEmptyString))
	assert.False(t, rentlens.IsValidationError(rentlens.ErrInvalidCredentials))
}

func TestErrorHelpersHandlePlainErrors(t *testing.T) {
	plain := fmt.Errorf("read tcp: connection reset")

	assert.False(t, rentlens.IsAccountBanned(plain))
	assert.False(t, rentlens.IsInvalidCredentials(plain))
	assert.False(t, rentlens.IsValidationError(plain))
	assert.False(t, rentlens.IsSessionNotFound(plain))
}

func TestSentinelTextCodes(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{rentlens.ErrAccountBanned, rentlens.TextCodeAccountBanned},
		{rentlens.ErrInvalidCredentials, rentlens.TextCodeInvalidCreds},
		{rentlens.ErrIdentityNotFound, rentlens.TextCodeIdentityNotFound},
		{rentlens.ErrTooManyLoginAttempts, rentlens.TextCodeTooManyAttempts},
		{rentlens.ErrConfirmationRequired, rentlens.TextCodeConfirmationRequired},
		{rentlens.ErrOperationInFlight, rentlens.TextCodeOperationInFlight},
		{rentlens.ErrAlreadyAuthenticated, rentlens.TextCodeAlreadyAuthenticated},
		{rentlens.ErrSessionNotFound, rentlens.TextCodeSessionNotFound},
	}

	for _, tc := range tests {
		var richErr *goerrors.Error
		assert.True(t, goerrors.As(tc.err, &richErr))
		assert.Equal(t, tc.code, richErr.TextCode)
	}
}
