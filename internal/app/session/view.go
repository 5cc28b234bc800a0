package session

import (
	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/dkeye/ScoreStream/internal/domain"
)

// Phase is the join progress of a session.
type Phase int

const (
	Unjoined Phase = iota
	AwaitingJoin
	Joined
)

func (p Phase) String() string {
	switch p {
	case Unjoined:
		return "unjoined"
	case AwaitingJoin:
		return "awaiting_join"
	case Joined:
		return "joined"
	default:
		return "unknown"
	}
}

// View is what the presentation layer renders. It is a value; holding
// one never observes later changes.
type View struct {
	Status   core.ConnectionState
	Phase    Phase
	Snapshot domain.RoomSnapshot
	// Notice is the last user-facing rejection, cleared by the next
	// successful join or room_state.
	Notice string
}

// Joined reports whether a room_state has been accepted.
func (v View) Joined() bool { return v.Snapshot.Joined() }

// Reconnecting is true while a kept snapshot is shown without a live socket.
func (v View) Reconnecting() bool {
	return v.Joined() && v.Status != core.StateConnected
}
