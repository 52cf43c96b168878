// Package gsession implements C2 (Router) and C3 (Session): per-connection
// state, the reader/writer goroutine pair, and component/command dispatch.
package gsession

import "fmt"

// State is the session's current protocol phase (spec.md §4.3).
type State int32

const (
	StateConnected State = iota
	StateAuthenticated
	StateInGame
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StateAuthenticated:
		return "Authenticated"
	case StateInGame:
		return "InGame"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}
