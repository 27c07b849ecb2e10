package rentlens

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
	Warn(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity. Values are
// immutable once issued; re-authentication replaces the whole value.
type Identity interface {
	ID() string
	Username() string
	Email() string
	DisplayName() string
	Role() UserRole
	IsBanned() bool
	CreatedAt() time.Time
}

// SessionStore persists the single scalar session record across restarts.
type SessionStore interface {
	Save(userID string) error
	Read() (string, error)
	Clear() error
}

// CredentialVerifier checks submitted credentials against stored records
type CredentialVerifier interface {
	VerifyIdentity(ctx context.Context, identifier, secret string) (Identity, error)
	FindIdentityByID(ctx context.Context, id string) (Identity, error)
}

// AccountRegistrerer is the interface we need to handle new user registrations
type AccountRegistrerer interface {
	RegisterUser(ctx context.Context, msg RegisterUserMessage) (*User, error)
}

// Invalidator is notified whenever the authenticated identity changes so any
// data scoped to the previous user is dropped before the next read.
type Invalidator interface {
	Invalidate()
}

// InvalidatorFunc adapts a function to the Invalidator interface.
type InvalidatorFunc func()

func (f InvalidatorFunc) Invalidate() { f() }

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] RENTLENS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] RENTLENS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] RENTLENS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] RENTLENS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
