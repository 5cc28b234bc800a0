package protocol

import (
	"errors"
	"testing"

	"github.com/dkeye/ScoreStream/internal/domain"
)

func TestDecodeRoomState(t *testing.T) {
	raw := `{"type":"room_state","roomId":"R1","player1":"Alice","player2":"Bob","score1":11,"score2":7,"pset1":1,"pset2":0}`

	msg, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	rs, ok := msg.(RoomState)
	if !ok {
		t.Fatalf("Decode() = %T, want RoomState", msg)
	}

	want := domain.RoomSnapshot{
		RoomID:   "R1",
		Player1:  "Alice",
		Player2:  "Bob",
		Score1:   11,
		Score2:   7,
		SetsWon1: 1,
		SetsWon2: 0,
	}
	if rs.Snapshot != want {
		t.Errorf("snapshot = %+v, want %+v", rs.Snapshot, want)
	}
}

func TestDecodeRoomStateZeroScoresAreValid(t *testing.T) {
	raw := `{"type":"room_state","roomId":"R1","player1":"","player2":"","score1":0,"score2":0,"pset1":0,"pset2":0}`
	if _, err := Decode([]byte(raw)); err != nil {
		t.Fatalf("Decode() error = %v, want nil for zero counters", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"truncated", `{"type":"room_state","roomId":"R1","player1":"Al`},
		{"not json", `hello`},
		{"array", `[1,2,3]`},
		{"null", `null`},
		{"missing type", `{"roomId":"R1"}`},
		{"missing score", `{"type":"room_state","roomId":"R1","player1":"A","player2":"B","score2":7,"pset1":1,"pset2":0}`},
		{"missing room", `{"type":"room_state","player1":"A","player2":"B","score1":1,"score2":7,"pset1":1,"pset2":0}`},
		{"empty room", `{"type":"room_state","roomId":"","player1":"A","player2":"B","score1":1,"score2":7,"pset1":1,"pset2":0}`},
		{"negative score", `{"type":"room_state","roomId":"R1","player1":"A","player2":"B","score1":-1,"score2":7,"pset1":1,"pset2":0}`},
		{"string score", `{"type":"room_state","roomId":"R1","player1":"A","player2":"B","score1":"11","score2":7,"pset1":1,"pset2":0}`},
		{"empty join", `{"type":"join_room","roomId":"  "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.raw))
			if err == nil {
				t.Fatalf("Decode() = %#v, want error", msg)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v does not wrap ErrMalformed", err)
			}
		})
	}
}

func TestDecodeUnknownTypeIsNotAnError(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"scoreboard_theme","color":"red"}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	u, ok := msg.(Unknown)
	if !ok {
		t.Fatalf("Decode() = %T, want Unknown", msg)
	}
	if u.Kind() != "scoreboard_theme" {
		t.Errorf("Kind() = %q", u.Kind())
	}
}

func TestDecodeJoinAndError(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"join_room","roomId":" ABC123 "}`))
	if err != nil {
		t.Fatalf("Decode(join) error = %v", err)
	}
	if j, ok := msg.(JoinRoom); !ok || j.RoomID != "ABC123" {
		t.Errorf("Decode(join) = %#v", msg)
	}

	msg, err = Decode([]byte(`{"type":"error","error":"room is not exists"}`))
	if err != nil {
		t.Fatalf("Decode(error) error = %v", err)
	}
	if e, ok := msg.(ErrorNotice); !ok || e.Reason != "room is not exists" {
		t.Errorf("Decode(error) = %#v", msg)
	}
}

func TestEncodeJoin(t *testing.T) {
	b, err := EncodeJoin("ABC123")
	if err != nil {
		t.Fatalf("EncodeJoin() error = %v", err)
	}
	if got, want := string(b), `{"type":"join_room","roomId":"ABC123"}`; got != want {
		t.Errorf("EncodeJoin() = %s, want %s", got, want)
	}
}

func TestEncodeRoomStateDecodesBack(t *testing.T) {
	snap := domain.RoomSnapshot{RoomID: "Q7", Player1: "Lee", Player2: "Axelsen", Score1: 21, Score2: 19, SetsWon1: 2, SetsWon2: 1}

	b, err := EncodeRoomState(snap)
	if err != nil {
		t.Fatalf("EncodeRoomState() error = %v", err)
	}
	msg, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode(%s) error = %v", b, err)
	}
	if rs := msg.(RoomState); rs.Snapshot != snap {
		t.Errorf("round trip = %+v, want %+v", rs.Snapshot, snap)
	}
}
