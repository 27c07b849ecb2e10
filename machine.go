package rentlens

import (
	"context"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultOperationTimeout bounds every network-touching auth operation. The
// machine must never be left initializing or mid-operation forever because a
// backend call hung.
const DefaultOperationTimeout = 30 * time.Second

// StateListener observes published states. Listeners are invoked
// synchronously in transition order and must not call back into the Machine.
type StateListener func(AuthState)

// Machine owns the single AuthState value and serializes every mutation.
// Direct operation results are the one source of truth for state; the async
// session-changed feed is reconciled through ApplySessionEvent and can only
// converge state toward what the backend already reported.
type Machine struct {
	mu    sync.Mutex
	pubMu sync.Mutex

	state    AuthState
	seq      uint64
	inFlight bool

	store     SessionStore
	verifier  CredentialVerifier
	registrar AccountRegistrerer

	subscribers  []StateListener
	invalidators []Invalidator
	lastEventID  string
	pendingBans  map[string]struct{}

	opTimeout time.Duration
	logger    Logger
}

// MachineOption customizes machine construction.
type MachineOption func(*Machine)

// WithMachineLogger overrides the default logger.
func WithMachineLogger(logger Logger) MachineOption {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithOperationTimeout overrides the per-operation deadline.
func WithOperationTimeout(d time.Duration) MachineOption {
	return func(m *Machine) {
		if d > 0 {
			m.opTimeout = d
		}
	}
}

// WithRegistrar wires the account-creation collaborator used by SignUp.
func WithRegistrar(registrar AccountRegistrerer) MachineOption {
	return func(m *Machine) {
		m.registrar = registrar
	}
}

// NewMachine returns a machine in the Initializing state.
func NewMachine(store SessionStore, verifier CredentialVerifier, opts ...MachineOption) *Machine {
	m := &Machine{
		state:     StateInitializing(),
		store:     store,
		verifier:  verifier,
		opTimeout: DefaultOperationTimeout,
		logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// CurrentState returns the last published state.
func (m *Machine) CurrentState() AuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUserID returns the authenticated user id, or "" when signed out.
// Repositories use it to scope every user-scoped query.
func (m *Machine) CurrentUserID() string {
	return m.CurrentState().UserID()
}

// Subscribe registers a listener for published states. Transitions are
// observed in the order they were produced.
func (m *Machine) Subscribe(fn StateListener) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// RegisterInvalidator adds a cache invalidation hook fired whenever the
// authenticated identity changes, so data scoped to the previous user is
// dropped before the next consumer reads it.
func (m *Machine) RegisterInvalidator(inv Invalidator) {
	if inv == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidators = append(m.invalidators, inv)
}

// Initialize reads the session store and resolves the startup state. With no
// persisted session it reaches Unauthenticated without touching the verifier.
// A stale session (profile load fails, or the user is banned) is cleared
// rather than surfaced as a crash.
func (m *Machine) Initialize(ctx context.Context) error {
	if err := m.beginOp(); err != nil {
		return err
	}
	defer m.endOp()

	userID, err := m.store.Read()
	if err != nil {
		if !IsSessionNotFound(err) {
			m.logger.Warn("session store read failed: %v", err)
		}
		m.commit(StateUnauthenticated())
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()

	identity, err := m.verifier.FindIdentityByID(ctx, userID)
	if err != nil {
		if clearErr := m.store.Clear(); clearErr != nil {
			m.logger.Warn("failed to clear stale session: %v", clearErr)
		}
		if IsAccountBanned(err) {
			m.commit(StateUnauthenticatedError(TextCodeAccountBanned))
		} else {
			m.commit(StateUnauthenticated())
		}
		return nil
	}

	m.commit(StateAuthenticated(identity))
	return nil
}

type signInRequest struct {
	Identifier string
	Secret     string
}

func (r signInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required),
		validation.Field(&r.Secret, validation.Required),
	)
}

// SignIn verifies credentials and, on success, persists the session before
// publishing the authenticated state. Empty inputs fail fast with a
// validation error and never reach the verifier. A banned account always
// leaves the store empty and the state carrying the ACCOUNT_BANNED code.
// Only the signed-out states may sign in; an authenticated machine must
// sign out first rather than silently swap identities.
func (m *Machine) SignIn(ctx context.Context, identifier, secret string) error {
	if err := m.beginOp(); err != nil {
		return err
	}
	defer m.endOp()

	if m.CurrentState().IsAuthenticated() {
		return ErrAlreadyAuthenticated
	}

	req := signInRequest{Identifier: identifier, Secret: secret}
	if err := req.Validate(); err != nil {
		richErr := goerrors.Wrap(err, goerrors.CategoryValidation, "identifier and secret are required").
			WithCode(goerrors.CodeBadRequest)
		m.commit(StateUnauthenticatedError(richErr.Message))
		return richErr
	}

	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()

	identity, err := m.verifier.VerifyIdentity(ctx, identifier, secret)
	if err != nil {
		if IsAccountBanned(err) {
			if clearErr := m.store.Clear(); clearErr != nil {
				m.logger.Warn("failed to clear session for banned account: %v", clearErr)
			}
		}
		m.commit(StateUnauthenticatedError(errorMessage(err)))
		return err
	}

	if err := m.store.Save(identity.ID()); err != nil {
		// A session that cannot be persisted is not a session; fail the
		// sign-in rather than authenticate a state that won't survive
		// restart.
		m.commit(StateUnauthenticatedError(errorMessage(err)))
		return err
	}

	if st := m.commit(StateAuthenticated(identity)); !st.IsAuthenticated() {
		// A ban notification landed while this sign-in was in flight; the
		// commit rerouted to the banned sign-out instead of installing the
		// identity.
		return ErrAccountBanned
	}
	return nil
}

// SignUp validates inputs and delegates account creation. Registration and
// login are decoupled: success leaves the machine Unauthenticated with no
// session, and the caller signs in explicitly.
func (m *Machine) SignUp(ctx context.Context, msg RegisterUserMessage) error {
	if err := m.beginOp(); err != nil {
		return err
	}
	defer m.endOp()

	if m.registrar == nil {
		return goerrors.New("no registrar configured", goerrors.CategoryOperation)
	}

	if err := msg.Validate(); err != nil {
		richErr := goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration request").
			WithCode(goerrors.CodeBadRequest)
		m.commit(StateUnauthenticatedError(richErr.Message))
		return richErr
	}

	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()

	user, err := m.registrar.RegisterUser(ctx, msg)
	if err != nil {
		m.commit(StateUnauthenticatedError(errorMessage(err)))
		return err
	}

	m.commit(StateUnauthenticated())

	if user != nil && !user.Confirmed {
		return ErrConfirmationRequired
	}
	return nil
}

// SignOut clears the session synchronously and transitions to
// Unauthenticated regardless of storage failures: local state must never be
// left authenticated after a user-initiated sign-out.
func (m *Machine) SignOut(ctx context.Context) error {
	if err := m.beginOp(); err != nil {
		return err
	}
	defer m.endOp()

	clearErr := m.store.Clear()
	if clearErr != nil {
		m.logger.Warn("session clear failed during sign-out: %v", clearErr)
	}

	m.commit(StateUnauthenticated())
	return clearErr
}

// ClearError strips the carried failure message. No-op unless the current
// state carries one; calling it twice yields the same clean state.
func (m *Machine) ClearError() {
	m.mu.Lock()
	_, hasErr := m.state.Err()
	m.mu.Unlock()

	if !hasErr {
		return
	}

	m.commit(StateUnauthenticated())
}

// ForceSignOut is the banned-detection path for failures discovered after a
// transition had already begun (e.g. an admin ban lands mid-session). The
// session is cleared before the state is published; there is no window where
// a banned user remains authenticated with a persisted session.
func (m *Machine) ForceSignOut(reason string) error {
	clearErr := m.store.Clear()
	if clearErr != nil {
		m.logger.Warn("session clear failed during forced sign-out: %v", clearErr)
	}

	if reason == "" {
		m.commit(StateUnauthenticated())
	} else {
		m.commit(StateUnauthenticatedError(reason))
	}
	return clearErr
}

// beginOp reserves the single in-flight operation slot. A second concurrent
// auth operation is rejected rather than allowed to corrupt final state.
func (m *Machine) beginOp() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return ErrOperationInFlight
	}
	m.inFlight = true
	return nil
}

func (m *Machine) endOp() {
	m.mu.Lock()
	m.inFlight = false
	m.pendingBans = nil
	m.mu.Unlock()
}

// commit installs the next state and publishes it. pubMu is acquired while
// still holding mu so listeners observe transitions in seq order. An
// authenticated state for a user with a pending ban never lands: the commit
// reroutes to the banned sign-out, clearing the session before publishing.
func (m *Machine) commit(next AuthState) AuthState {
	m.mu.Lock()

	var banRerouted bool
	if next.IsAuthenticated() {
		if _, banned := m.pendingBans[next.UserID()]; banned {
			delete(m.pendingBans, next.UserID())
			next = StateUnauthenticatedError(TextCodeAccountBanned)
			banRerouted = true
		}
	}

	m.seq++
	next.seq = m.seq
	prev := m.state
	m.state = next

	subs := make([]StateListener, len(m.subscribers))
	copy(subs, m.subscribers)
	var invs []Invalidator
	if !prev.sameIdentity(next) {
		invs = make([]Invalidator, len(m.invalidators))
		copy(invs, m.invalidators)
	}

	m.pubMu.Lock()
	m.mu.Unlock()
	defer m.pubMu.Unlock()

	if banRerouted {
		if err := m.store.Clear(); err != nil {
			m.logger.Warn("session clear failed for banned account: %v", err)
		}
	}

	for _, inv := range invs {
		inv.Invalidate()
	}
	for _, fn := range subs {
		fn(next)
	}

	return next
}
