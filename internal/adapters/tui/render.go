// Package tui draws the scoreboard in a terminal. Render and Line are
// pure functions of the session view; App only pushes them to tview.
package tui

import (
	"fmt"
	"strconv"

	"github.com/dkeye/ScoreStream/internal/app/session"
	"github.com/dkeye/ScoreStream/internal/core"
)

const (
	PageJoin  = "join"
	PageBoard = "board"

	Title = "Badminton Score Stream"
)

type PlayerPanel struct {
	Name  string
	Score string
	Sets  string
}

// Screen is everything App needs to draw one frame.
type Screen struct {
	Page        string
	ButtonLabel string
	RoomBadge   string
	Players     [2]PlayerPanel
	Overlay     string
	Notice      string
}

func Render(v session.View) Screen {
	s := Screen{Notice: v.Notice}
	if !v.Joined() {
		s.Page = PageJoin
		switch {
		case v.Status != core.StateConnected:
			s.ButtonLabel = "Connecting..."
		case v.Phase == session.AwaitingJoin:
			s.ButtonLabel = "Joining..."
		default:
			s.ButtonLabel = "Join Room"
		}
		return s
	}

	snap := v.Snapshot
	s.Page = PageBoard
	s.RoomBadge = "Room: " + string(snap.RoomID)
	s.Players[0] = PlayerPanel{Name: snap.Player1, Score: strconv.Itoa(snap.Score1), Sets: fmt.Sprintf("Sets: %d", snap.SetsWon1)}
	s.Players[1] = PlayerPanel{Name: snap.Player2, Score: strconv.Itoa(snap.Score2), Sets: fmt.Sprintf("Sets: %d", snap.SetsWon2)}
	if v.Reconnecting() {
		s.Overlay = "Reconnecting..."
	}
	return s
}

// Line renders a view on one line for headless output.
func Line(v session.View) string {
	if !v.Joined() {
		line := fmt.Sprintf("[%s] %s", v.Status, v.Phase)
		if v.Notice != "" {
			line += ": " + v.Notice
		}
		return line
	}
	snap := v.Snapshot
	return fmt.Sprintf("[%s] room %s | %s %d (%d) - (%d) %d %s",
		v.Status, snap.RoomID,
		snap.Player1, snap.Score1, snap.SetsWon1,
		snap.SetsWon2, snap.Score2, snap.Player2)
}
