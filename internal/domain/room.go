package domain

import (
	"errors"
	"strings"
)

type RoomID string

const MaxRoomKeyLen = 64

var (
	ErrRoomKeyEmpty   = errors.New("room key empty")
	ErrRoomKeyTooLong = errors.New("room key too long")
)

// NormalizeRoomKey trims user input and checks it can be sent as a join key.
func NormalizeRoomKey(raw string) (RoomID, error) {
	key := strings.TrimSpace(raw)
	if len(key) == 0 {
		return "", ErrRoomKeyEmpty
	}
	if len(key) > MaxRoomKeyLen {
		return "", ErrRoomKeyTooLong
	}
	return RoomID(key), nil
}
