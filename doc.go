// Package rentlens implements the client-core of the RentLens rental
// marketplace: credential verification, the authentication state machine,
// the navigation guard, and the resource repositories the rest of the app
// reads through.
//
// Auth lifecycle:
//   - Machine owns the single AuthState value (initializing, unauthenticated,
//     authenticated) and serializes every mutation. Direct operation results
//     are the one source of truth; asynchronous session-changed events from
//     the backend are reconciled through ApplySessionEvent and can only
//     converge state, never flap it.
//   - CredentialVerifier checks submitted credentials against the users
//     collection, enforces the banned-account invariant, and tracks failed
//     attempts within a cooldown window.
//   - SessionStore persists the single scalar session record that survives
//     process restarts. It is read once at startup and written or cleared
//     only by the Machine.
//
// Routing:
//   - Decide is a pure function of (AuthState, RouteContext) producing a
//     redirect decision. GuardMiddleware applies it per request on top of
//     fiber.
//
// Repositories:
//   - Users, Products, Bookings, and Reports wrap bun queries. List
//     operations that are user-scoped always filter by the current user id
//     client-side, even though the backend enforces the same rule.
package rentlens
