// Package client implements the player-side session for online matches.
//
// A Session owns one websocket connection and walks the match phases:
//
//	Idle -> AwaitingPeer -> Ready -> Active -> TornDown
//
// Idle sessions may create or join a room. AwaitingPeer holds the room
// code until the second player arrives. Ready waits a short fixed delay
// so both sides finish local setup, then the session activates.
//
// While Active, the roles differ. The host (player 1) runs the court
// simulation and originates ball and score updates every tick. The guest
// (player 2) never steps the simulation; it only applies incoming ball
// and score snapshots to its local mirror. Both roles send their own
// paddle position on movement input, fire and forget; a lost update is
// superseded by the next one.
//
// Teardown (opponent disconnect, explicit leave, or transport loss)
// releases the room binding and clears the mirror, so a later create or
// join starts from a clean slate.
package client
