package tui

import (
	"testing"

	"github.com/dkeye/ScoreStream/internal/app/session"
	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/dkeye/ScoreStream/internal/domain"
)

var joined = domain.RoomSnapshot{RoomID: "R1", Player1: "Alice", Player2: "Bob", Score1: 11, Score2: 7, SetsWon1: 1}

func TestRenderJoinForm(t *testing.T) {
	tests := []struct {
		name   string
		view   session.View
		button string
	}{
		{"disconnected", session.View{Status: core.StateDisconnected, Snapshot: domain.UnjoinedSnapshot()}, "Connecting..."},
		{"connecting", session.View{Status: core.StateConnecting, Snapshot: domain.UnjoinedSnapshot()}, "Connecting..."},
		{"ready", session.View{Status: core.StateConnected, Snapshot: domain.UnjoinedSnapshot()}, "Join Room"},
		{"awaiting", session.View{Status: core.StateConnected, Phase: session.AwaitingJoin, Snapshot: domain.UnjoinedSnapshot()}, "Joining..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Render(tt.view)
			if s.Page != PageJoin {
				t.Errorf("page = %q, want %q", s.Page, PageJoin)
			}
			if s.ButtonLabel != tt.button {
				t.Errorf("button = %q, want %q", s.ButtonLabel, tt.button)
			}
		})
	}
}

func TestRenderBoard(t *testing.T) {
	s := Render(session.View{Status: core.StateConnected, Phase: session.Joined, Snapshot: joined})
	want := Screen{
		Page:      PageBoard,
		RoomBadge: "Room: R1",
		Players: [2]PlayerPanel{
			{Name: "Alice", Score: "11", Sets: "Sets: 1"},
			{Name: "Bob", Score: "7", Sets: "Sets: 0"},
		},
	}
	if s != want {
		t.Errorf("Render() = %+v, want %+v", s, want)
	}
}

func TestRenderReconnectingOverlay(t *testing.T) {
	s := Render(session.View{Status: core.StateConnecting, Phase: session.Joined, Snapshot: joined})
	if s.Page != PageBoard || s.Overlay != "Reconnecting..." {
		t.Errorf("Render() = %+v", s)
	}
}

func TestRenderNotice(t *testing.T) {
	s := Render(session.View{Status: core.StateConnected, Snapshot: domain.UnjoinedSnapshot(), Notice: session.NoticeMissingKey})
	if s.Notice != "Please enter room key" {
		t.Errorf("notice = %q", s.Notice)
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		view session.View
		want string
	}{
		{session.View{Status: core.StateConnecting, Snapshot: domain.UnjoinedSnapshot()}, "[connecting] unjoined"},
		{session.View{Status: core.StateDisconnected, Notice: "Not connected to server"}, "[disconnected] unjoined: Not connected to server"},
		{session.View{Status: core.StateConnected, Phase: session.Joined, Snapshot: joined}, "[connected] room R1 | Alice 11 (1) - (0) 7 Bob"},
	}
	for _, tt := range tests {
		if got := Line(tt.view); got != tt.want {
			t.Errorf("Line() = %q, want %q", got, tt.want)
		}
	}
}
