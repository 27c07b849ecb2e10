package rentlens

// SessionEventType names the notifications the backend session subsystem
// emits asynchronously.
type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
	SessionBanned    SessionEventType = "banned"
)

// SessionEvent is one async session-changed notification. ID is the
// backend-assigned event identity used to drop duplicate deliveries.
type SessionEvent struct {
	ID     string
	Type   SessionEventType
	UserID string
}

// ApplySessionEvent reconciles an async notification against the state the
// direct operations already installed. Direct results are the single
// authority: an event that describes the current state is a no-op, a
// sign-in event is never applied on its own (the direct SignIn path is the
// only way in), and only sign-out and ban events may move the state, since
// they converge toward what the backend has already decided.
func (m *Machine) ApplySessionEvent(ev SessionEvent) {
	m.mu.Lock()
	if ev.ID != "" && ev.ID == m.lastEventID {
		m.mu.Unlock()
		return
	}
	m.lastEventID = ev.ID
	current := m.state
	m.mu.Unlock()

	switch ev.Type {
	case SessionSignedOut:
		if !current.IsAuthenticated() {
			return
		}
		if ev.UserID != "" && ev.UserID != current.UserID() {
			return
		}
		if err := m.ForceSignOut(""); err != nil {
			m.logger.Warn("session event sign-out: %v", err)
		}

	case SessionBanned:
		if ev.UserID != "" && ev.UserID != current.UserID() {
			// The ban may be racing an operation that is about to install
			// this very user. Park it so commit can reroute; a ban is never
			// dropped just because it arrived mid-transition.
			m.mu.Lock()
			if m.inFlight {
				if m.pendingBans == nil {
					m.pendingBans = map[string]struct{}{}
				}
				m.pendingBans[ev.UserID] = struct{}{}
			}
			m.mu.Unlock()
			return
		}
		if err := m.ForceSignOut(TextCodeAccountBanned); err != nil {
			m.logger.Warn("session event ban: %v", err)
		}

	case SessionSignedIn:
		// Already reflected when it matches; otherwise the direct path is
		// the authority and the event is dropped.
		if current.UserID() != ev.UserID {
			m.logger.Debug("dropping unsolicited sign-in event for user %s", ev.UserID)
		}

	default:
		m.logger.Debug("unknown session event type %q", ev.Type)
	}
}
