package orch

import (
	"fmt"

	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/dkeye/ScoreStream/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join moves a viewer into a room and returns that room so the caller
// can send the current snapshot.
func (o *Orchestrator) Join(sid core.SessionID, id domain.RoomID) (core.RoomService, error) {
	room, ok := o.Rooms.GetRoom(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	if cur, _, ok := o.Registry.RoomOf(sid); ok {
		if cur == id {
			return room, nil
		}
		o.KickBySID(sid)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(cur)).Msg("left previous room")
	}
	session, ok := o.Registry.GetSession(sid)
	if !ok {
		return nil, fmt.Errorf("no session %s", sid)
	}
	room.AddViewer(session)
	o.Registry.UpdateRoom(sid, id)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(id)).Msg("added to room")
	return room, nil
}

func (o *Orchestrator) KickBySID(sid core.SessionID) {
	id, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return
	}
	if room, ok := o.Rooms.GetRoom(id); ok {
		room.RemoveViewer(sid)
	}
	o.Registry.RemoveRoom(sid)
}

func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.KickBySID(sid)
	o.Registry.Unbind(sid)
}

// EvictRoom drops every viewer of a room and deletes it.
func (o *Orchestrator) EvictRoom(id domain.RoomID) {
	for _, snap := range o.Registry.ViewersOfRoom(id) {
		o.KickBySID(snap.SID)
	}
	o.Rooms.StopRoom(id)
}
