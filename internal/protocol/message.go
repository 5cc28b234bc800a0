// Package protocol is the JSON wire format spoken between the scoreboard
// client and a scoring server. Every frame is one JSON object with a
// "type" discriminator.
package protocol

import (
	"errors"

	"github.com/dkeye/ScoreStream/internal/domain"
)

const (
	TypeJoinRoom  = "join_room"
	TypeRoomState = "room_state"
	TypeError     = "error"
	TypePing      = "ping"
	TypePong      = "pong"
)

// ErrMalformed wraps every decode failure: bad JSON, missing type,
// missing or invalid fields in a known message.
var ErrMalformed = errors.New("malformed message")

// Message is a decoded inbound frame.
type Message interface {
	Kind() string
}

// RoomState carries a full snapshot of one room.
type RoomState struct {
	Snapshot domain.RoomSnapshot
}

func (RoomState) Kind() string { return TypeRoomState }

// JoinRoom is sent by a viewer to subscribe to a room.
type JoinRoom struct {
	RoomID domain.RoomID
}

func (JoinRoom) Kind() string { return TypeJoinRoom }

// ErrorNotice is a server-side rejection, e.g. unknown room.
type ErrorNotice struct {
	Reason string
}

func (ErrorNotice) Kind() string { return TypeError }

type Ping struct{}

func (Ping) Kind() string { return TypePing }

// Unknown is any well-formed frame whose type this side does not handle.
type Unknown struct {
	Type string
}

func (u Unknown) Kind() string { return u.Type }
