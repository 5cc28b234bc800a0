// Package orch ties the relay registry, rooms and backpressure policy
// together. Adapters call it; it never touches sockets directly.
package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/ScoreStream/internal/app"
	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/dkeye/ScoreStream/internal/domain"
	"github.com/dkeye/ScoreStream/internal/protocol"
	"github.com/rs/zerolog/log"
)

var ErrRoomNotFound = errors.New("room not found")

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Policy   app.Policy
}

// Broadcast fans a frame out to a room and applies the backpressure
// policy to viewers that could not keep up.
func (o *Orchestrator) Broadcast(room core.RoomService, data core.Frame) core.PublishResult {
	res := room.Broadcast(data)
	if o.Policy == nil {
		return res
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickViewer:
			log.Warn().Str("module", "orch").Str("sid", string(slow.ID())).Str("room", string(room.ID())).Msg("kicking slow viewer")
			o.KickBySID(slow.ID())
			o.Registry.Cancel(slow.ID())
		case app.DropFrame, app.NoAction:
		}
	}
	return res
}

// UpdateScore replaces a room's score and pushes the new snapshot to
// every viewer of that room.
func (o *Orchestrator) UpdateScore(id domain.RoomID, u core.ScoreUpdate) (domain.RoomSnapshot, error) {
	room, ok := o.Rooms.GetRoom(id)
	if !ok {
		return domain.RoomSnapshot{}, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	snap := room.Apply(u)
	frame, err := protocol.EncodeRoomState(snap)
	if err != nil {
		return snap, fmt.Errorf("encode room_state: %w", err)
	}
	o.Broadcast(room, frame)
	return snap, nil
}
