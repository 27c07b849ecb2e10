package rentlens

// AuthPhase names the variant held by an AuthState.
type AuthPhase string

const (
	// PhaseInitializing is transient, only at process start.
	PhaseInitializing AuthPhase = "initializing"
	// PhaseUnauthenticated may carry the last failed-operation message.
	PhaseUnauthenticated AuthPhase = "unauthenticated"
	// PhaseAuthenticated carries the current identity.
	PhaseAuthenticated AuthPhase = "authenticated"
)

// AuthState is a tagged union: exactly one variant is active, and an
// authenticated state never carries an error. Values are immutable; the
// Machine replaces them wholesale on every transition.
type AuthState struct {
	phase  AuthPhase
	user   Identity
	errMsg string
	seq    uint64
}

// StateInitializing is the initial state of a fresh Machine.
func StateInitializing() AuthState {
	return AuthState{phase: PhaseInitializing}
}

// StateUnauthenticated is the clean signed-out state.
func StateUnauthenticated() AuthState {
	return AuthState{phase: PhaseUnauthenticated}
}

// StateUnauthenticatedError carries the last failed-operation message. The
// message is cleared only by an explicit ClearError or a successful sign-in.
func StateUnauthenticatedError(msg string) AuthState {
	return AuthState{phase: PhaseUnauthenticated, errMsg: msg}
}

// StateAuthenticated holds the signed-in identity.
func StateAuthenticated(user Identity) AuthState {
	return AuthState{phase: PhaseAuthenticated, user: user}
}

// Phase returns the active variant.
func (s AuthState) Phase() AuthPhase {
	if s.phase == "" {
		return PhaseInitializing
	}
	return s.phase
}

// User returns the identity when authenticated.
func (s AuthState) User() (Identity, bool) {
	if s.Phase() != PhaseAuthenticated || s.user == nil {
		return nil, false
	}
	return s.user, true
}

// UserID returns the authenticated user id, or "" when signed out.
func (s AuthState) UserID() string {
	if user, ok := s.User(); ok {
		return user.ID()
	}
	return ""
}

// Err returns the carried failure message, if any.
func (s AuthState) Err() (string, bool) {
	if s.Phase() != PhaseUnauthenticated || s.errMsg == "" {
		return "", false
	}
	return s.errMsg, true
}

// IsAuthenticated reports whether an identity is installed.
func (s AuthState) IsAuthenticated() bool {
	return s.Phase() == PhaseAuthenticated
}

// Seq is the monotonically increasing transition counter stamped by the
// Machine. Two states with the same Seq are the same published transition.
func (s AuthState) Seq() uint64 {
	return s.seq
}

// sameIdentity reports whether both states carry the same user id (or both
// carry none). Used to decide when user-scoped caches must be invalidated.
func (s AuthState) sameIdentity(other AuthState) bool {
	return s.UserID() == other.UserID()
}
