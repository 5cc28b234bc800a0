// Package domain contains entity without logic, just meta-data
package domain

const (
	DefaultPlayer1 = "Player 1"
	DefaultPlayer2 = "Player 2"
)

// RoomSnapshot is the whole score state of a room at one point in time.
// It is always replaced as a unit.
type RoomSnapshot struct {
	RoomID   RoomID `json:"roomId,omitempty"`
	Player1  string `json:"player1"`
	Player2  string `json:"player2"`
	Score1   int    `json:"score1"`
	Score2   int    `json:"score2"`
	SetsWon1 int    `json:"pset1"`
	SetsWon2 int    `json:"pset2"`
}

// UnjoinedSnapshot is what the scoreboard holds before any room_state.
func UnjoinedSnapshot() RoomSnapshot {
	return RoomSnapshot{
		Player1: DefaultPlayer1,
		Player2: DefaultPlayer2,
	}
}

func (s RoomSnapshot) Joined() bool { return s.RoomID != "" }
