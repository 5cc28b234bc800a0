package core

import (
	"github.com/dkeye/ScoreStream/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []ViewerSession
}

// ScoreUpdate is an operator write to a room. Names left empty keep
// their current value.
type ScoreUpdate struct {
	Player1  string
	Player2  string
	Score1   int
	Score2   int
	SetsWon1 int
	SetsWon2 int
}

// RoomService is the core-facing API of a room.
// It owns the viewer set and the current snapshot but never touches
// transport resources.
type RoomService interface {
	ID() domain.RoomID
	Snapshot() domain.RoomSnapshot
	Apply(u ScoreUpdate) domain.RoomSnapshot
	ViewerCount() int

	AddViewer(vs ViewerSession)
	RemoveViewer(sid SessionID)
	Broadcast(data Frame) PublishResult
}

type RoomInfo struct {
	ID          domain.RoomID       `json:"id"`
	Snapshot    domain.RoomSnapshot `json:"snapshot"`
	ViewerCount int                 `json:"viewer_count"`
}

type RoomManager interface {
	Create(player1, player2 string) RoomService
	GetRoom(id domain.RoomID) (RoomService, bool)
	List() []RoomInfo
	StopRoom(id domain.RoomID)
}
