package rentlens

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes are the machine readable channel for auth failures; the UI keys
// tailored messages off them.
const (
	TextCodeAccountBanned        = "ACCOUNT_BANNED"
	TextCodeInvalidCreds         = "INVALID_CREDENTIALS"
	TextCodeIdentityNotFound     = "IDENTITY_NOT_FOUND"
	TextCodeTooManyAttempts      = "TOO_MANY_LOGIN_ATTEMPTS"
	TextCodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	TextCodeOperationInFlight    = "AUTH_OPERATION_IN_FLIGHT"
	TextCodeAlreadyAuthenticated = "ALREADY_AUTHENTICATED"
	TextCodeEmptyPassword        = "EMPTY_PASSWORD"
	TextCodeSessionNotFound      = "SESSION_NOT_FOUND"
)

// ErrIdentityNotFound is returned when no user record matches the identifier.
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrInvalidCredentials is returned when the secret does not match the stored hash.
var ErrInvalidCredentials = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountBanned is returned for banned accounts. It always forces a
// session clear; no caller may establish or keep a session after seeing it.
var ErrAccountBanned = goerrors.New("account is banned", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountBanned).
	WithCode(goerrors.CodeForbidden)

// ErrTooManyLoginAttempts is returned when the attempt counter exceeds the
// allowed maximum inside the cooldown window.
var ErrTooManyLoginAttempts = goerrors.New("too many login attempts", goerrors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrConfirmationRequired signals a registration that succeeded but needs a
// follow-up step before login is possible.
var ErrConfirmationRequired = goerrors.New("account requires confirmation before login", goerrors.CategoryAuth).
	WithTextCode(TextCodeConfirmationRequired).
	WithCode(goerrors.CodeUnauthorized)

// ErrOperationInFlight rejects a new auth operation while one is pending.
var ErrOperationInFlight = goerrors.New("an auth operation is already in flight", goerrors.CategoryConflict).
	WithTextCode(TextCodeOperationInFlight).
	WithCode(goerrors.CodeConflict)

// ErrAlreadyAuthenticated rejects a sign-in while an identity is installed;
// callers sign out first instead of swapping identities in place.
var ErrAlreadyAuthenticated = goerrors.New("already authenticated, sign out first", goerrors.CategoryConflict).
	WithTextCode(TextCodeAlreadyAuthenticated).
	WithCode(goerrors.CodeConflict)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrSessionNotFound is returned by session stores that have no record.
var ErrSessionNotFound = goerrors.New("no session record present", goerrors.CategoryNotFound).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(goerrors.CodeNotFound)

// IsAccountBanned reports whether err carries the banned text code. Banned
// detection is typed; never match on exception message strings.
func IsAccountBanned(err error) bool {
	return hasTextCode(err, TextCodeAccountBanned)
}

// IsInvalidCredentials reports whether err is a credential mismatch.
func IsInvalidCredentials(err error) bool {
	return hasTextCode(err, TextCodeInvalidCreds)
}

// IsConfirmationRequired reports whether err is the post-registration
// confirmation signal.
func IsConfirmationRequired(err error) bool {
	return hasTextCode(err, TextCodeConfirmationRequired)
}

// IsValidationError reports whether err was resolved locally, before any
// network round trip.
func IsValidationError(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryValidation
}

func hasTextCode(err error, code string) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// errorMessage collapses any failure into the single string surfaced by the
// Unauthenticated state. Rich errors keep their text code as the message so
// the UI can distinguish the banned sentinel from generic failures.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode != "" {
		return richErr.TextCode
	}
	return err.Error()
}
