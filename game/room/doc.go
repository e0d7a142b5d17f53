// Package room provides the room registry for two-player online matches.
//
// The room package implements:
//   - Unique 6-character join code generation
//   - Two-player capacity enforcement
//   - Connection-to-room membership tracking
//   - Idempotent teardown keyed by connection
//
// Core Types:
//
// Registry is the authoritative owner of all live rooms. Room is an
// immutable snapshot of a single room's membership; mutation happens only
// through Registry methods.
//
// Join Codes:
//
// Codes are 6 characters drawn from uppercase letters and digits, generated
// with cryptographic randomness and retried on collision. A destroyed
// room's code returns to the available pool. Codes are unguessable enough
// to avoid casual collision but are not a security boundary: anyone holding
// a valid code may join.
//
// Membership Invariants:
//
// A connection belongs to at most one room; a room holds at most two
// connections; the first member is the host (player 1) and the second the
// guest (player 2), immutable once assigned.
//
// Teardown:
//
// Remove destroys the whole room for either member's departure; a
// one-sided session cannot continue. Removal of the room record is the
// tombstone: a second Remove for the same connection is a no-op, so an
// explicit leave racing a transport disconnect resolves to a single
// teardown.
//
// Concurrency:
//
// The registry is safe for concurrent use. Mutations are expected to be
// serialized by the transport hub; the internal lock exists for the
// read-only REST and MCP paths that run on other goroutines.
package room
