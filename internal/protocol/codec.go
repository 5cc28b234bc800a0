package protocol

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/dkeye/ScoreStream/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type envelope struct {
	Type string `json:"type"`
}

// roomStatePayload uses pointers so that an absent field is told apart
// from a zero score.
type roomStatePayload struct {
	Type    string  `json:"type"`
	RoomID  *string `json:"roomId" validate:"required,min=1"`
	Player1 *string `json:"player1" validate:"required"`
	Player2 *string `json:"player2" validate:"required"`
	Score1  *int    `json:"score1" validate:"required,min=0"`
	Score2  *int    `json:"score2" validate:"required,min=0"`
	PSet1   *int    `json:"pset1" validate:"required,min=0"`
	PSet2   *int    `json:"pset2" validate:"required,min=0"`
}

type joinRoomPayload struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

type errorPayload struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Decode turns one raw frame into a typed Message. It never panics on
// untrusted input; every failure wraps ErrMalformed.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}

	switch env.Type {
	case TypeRoomState:
		return decodeRoomState(data)
	case TypeJoinRoom:
		var p joinRoomPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: join_room: %v", ErrMalformed, err)
		}
		id, err := domain.NormalizeRoomKey(p.RoomID)
		if err != nil {
			return nil, fmt.Errorf("%w: join_room: %v", ErrMalformed, err)
		}
		return JoinRoom{RoomID: id}, nil
	case TypeError:
		var p errorPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: error: %v", ErrMalformed, err)
		}
		return ErrorNotice{Reason: p.Error}, nil
	case TypePing:
		return Ping{}, nil
	default:
		return Unknown{Type: env.Type}, nil
	}
}

func decodeRoomState(data []byte) (Message, error) {
	var p roomStatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: room_state: %v", ErrMalformed, err)
	}
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: room_state: %v", ErrMalformed, err)
	}
	return RoomState{Snapshot: domain.RoomSnapshot{
		RoomID:   domain.RoomID(*p.RoomID),
		Player1:  *p.Player1,
		Player2:  *p.Player2,
		Score1:   *p.Score1,
		Score2:   *p.Score2,
		SetsWon1: *p.PSet1,
		SetsWon2: *p.PSet2,
	}}, nil
}

// EncodeJoin builds the join_room frame for a room key.
func EncodeJoin(id domain.RoomID) ([]byte, error) {
	return json.Marshal(joinRoomPayload{Type: TypeJoinRoom, RoomID: string(id)})
}

// EncodeRoomState builds the room_state frame the relay pushes to viewers.
func EncodeRoomState(s domain.RoomSnapshot) ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		domain.RoomSnapshot
	}{Type: TypeRoomState, RoomSnapshot: s})
}

func EncodeError(reason string) ([]byte, error) {
	return json.Marshal(errorPayload{Type: TypeError, Error: reason})
}

func EncodePong() ([]byte, error) {
	return json.Marshal(envelope{Type: TypePong})
}
