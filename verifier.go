package rentlens

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// UserTracker is the store the verifier reads identities from.
type UserTracker interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// MaxLoginAttempts is the maximum number of failed attempts a user gets
// inside the cooldown window.
var MaxLoginAttempts = 5

// CoolDownWindow is the trailing window in which failed attempts count.
var CoolDownWindow = 24 * time.Hour

// Verifier checks submitted credentials against stored user records. A
// failed verification is terminal for that call; retry policy belongs to the
// caller.
type Verifier struct {
	store  UserTracker
	logger Logger
	now    func() time.Time
}

var _ CredentialVerifier = (*Verifier)(nil)

// NewVerifier will create a new Verifier
func NewVerifier(store UserTracker) *Verifier {
	return &Verifier{
		store:  store,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (v *Verifier) WithLogger(l Logger) *Verifier {
	if l != nil {
		v.logger = l
	}
	return v
}

// WithClock injects a custom clock (useful for cooldown tests).
func (v *Verifier) WithClock(clock func() time.Time) *Verifier {
	if clock != nil {
		v.now = clock
	}
	return v
}

// VerifyIdentity finds the user, compares the secret against the stored
// hash, and enforces the banned-account invariant before returning the
// identity. Banned accounts fail even with correct credentials.
func (v *Verifier) VerifyIdentity(ctx context.Context, identifier, secret string) (Identity, error) {
	user, err := v.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if user.LoginAttemptAt != nil && !withinWindow(*user.LoginAttemptAt, CoolDownWindow, v.now()) {
		user.LoginAttempts = 0
	}

	if user.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(secret, user.PasswordHash); err != nil {
		if err2 := v.store.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, goerrors.Wrap(err2, goerrors.CategoryInternal, "failed to track login attempt")
		}
		return nil, ErrInvalidCredentials
	}

	// Ban check comes after the hash compare so a banned response never
	// doubles as a credential oracle.
	if user.Banned {
		return nil, ErrAccountBanned
	}

	if !user.Confirmed {
		return nil, ErrConfirmationRequired
	}

	if err := v.store.TrackSuccessfulLogin(ctx, user); err != nil {
		v.logger.Warn("failed to track successful login", "error", err)
	}

	return identityFromUser(user), nil
}

// FindIdentityByID loads the identity for a persisted session id. Banned
// users fail here too, so a stale session can never resurrect a banned
// account at startup.
func (v *Verifier) FindIdentityByID(ctx context.Context, id string) (Identity, error) {
	user, err := v.store.GetByIdentifier(ctx, id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user for session")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if user.Banned {
		return nil, ErrAccountBanned
	}

	return identityFromUser(user), nil
}

// withinWindow reports whether t falls inside the trailing window ending at now.
func withinWindow(t time.Time, window time.Duration, now time.Time) bool {
	return t.After(now.Add(-window))
}

type authIdentity struct {
	id          string
	username    string
	email       string
	displayName string
	role        UserRole
	banned      bool
	createdAt   time.Time
}

func identityFromUser(user *User) authIdentity {
	role := user.Role
	if role == "" {
		role = RoleUser
	}

	var created time.Time
	if user.CreatedAt != nil {
		created = *user.CreatedAt
	}

	return authIdentity{
		id:          user.ID.String(),
		username:    user.Username,
		email:       user.Email,
		displayName: user.DisplayName,
		role:        role,
		banned:      user.Banned,
		createdAt:   created,
	}
}

func (a authIdentity) ID() string       { return a.id }
func (a authIdentity) Username() string { return a.username }
func (a authIdentity) Email() string    { return a.email }
func (a authIdentity) Role() UserRole   { return a.role }
func (a authIdentity) IsBanned() bool   { return a.banned }

// DisplayName is the user-facing name carried on the identity.
func (a authIdentity) DisplayName() string { return a.displayName }

// CreatedAt is the account creation time; zero when the record never carried one.
func (a authIdentity) CreatedAt() time.Time { return a.createdAt }

var _ Identity = authIdentity{}
