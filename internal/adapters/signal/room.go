package signal

import (
	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/dkeye/ScoreStream/internal/protocol"
	"github.com/rs/zerolog/log"
)

const (
	reasonUnknownRoom = "room is not exists"
	reasonRateLimited = "too many join attempts"
)

// handleJoin subscribes the viewer and answers with the room snapshot.
func (ctl *SignalWSController) handleJoin(
	sid core.SessionID,
	conn *WsSignalConn,
	p protocol.JoinRoom,
) {
	if !ctl.joins.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("join rate limited")
		frame, err := protocol.EncodeError(reasonRateLimited)
		ctl.sendFrame(conn, frame, err)
		return
	}

	room, err := ctl.Orch.Join(sid, p.RoomID)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room_id", string(p.RoomID)).Msg("join failed")
		frame, err := protocol.EncodeError(reasonUnknownRoom)
		ctl.sendFrame(conn, frame, err)
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room_id", string(p.RoomID)).Msg("join")
	frame, err := protocol.EncodeRoomState(room.Snapshot())
	ctl.sendFrame(conn, frame, err)
}
