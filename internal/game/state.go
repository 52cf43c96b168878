// Package game implements C4 (Game) and C5 (Game manager): a registry of
// live matches, their slot/attribute/state machinery, and the rule
// evaluation matchmaking uses to place tickets.
package game

import "fmt"

// State is a game's lifecycle phase (spec.md §4.4).
type State int32

const (
	StateInit State = iota
	StateInGame
	StateReturning
	StateHosting
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateInGame:
		return "InGame"
	case StateReturning:
		return "Returning"
	case StateHosting:
		return "Hosting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// validTransitions enumerates the allowed non-Hosting state changes; entry
// into and exit from StateHosting (migration) is handled separately by
// BeginHostMigration/EndHostMigration.
var validTransitions = map[State]State{
	StateInit:      StateInGame,
	StateInGame:    StateReturning,
	StateReturning: StateInit,
}

// CanTransition reports whether from -> to is an allowed state change.
func CanTransition(from, to State) bool {
	return validTransitions[from] == to
}
