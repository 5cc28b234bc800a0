package core

import (
	"sync"

	"github.com/dkeye/ScoreStream/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	id      domain.RoomID
	mu      sync.RWMutex
	snap    domain.RoomSnapshot
	viewers map[SessionID]ViewerSession
}

func NewRoomService(id domain.RoomID, player1, player2 string) RoomService {
	snap := domain.UnjoinedSnapshot()
	snap.RoomID = id
	if player1 != "" {
		snap.Player1 = player1
	}
	if player2 != "" {
		snap.Player2 = player2
	}
	return &roomImpl{
		id:      id,
		snap:    snap,
		viewers: make(map[SessionID]ViewerSession),
	}
}

func (r *roomImpl) ID() domain.RoomID { return r.id }

func (r *roomImpl) Snapshot() domain.RoomSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

func (r *roomImpl) Apply(u ScoreUpdate) domain.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := domain.RoomSnapshot{
		RoomID:   r.id,
		Player1:  r.snap.Player1,
		Player2:  r.snap.Player2,
		Score1:   u.Score1,
		Score2:   u.Score2,
		SetsWon1: u.SetsWon1,
		SetsWon2: u.SetsWon2,
	}
	if u.Player1 != "" {
		next.Player1 = u.Player1
	}
	if u.Player2 != "" {
		next.Player2 = u.Player2
	}
	r.snap = next
	log.Info().Str("module", "core.room").Str("room", string(r.id)).
		Int("score1", next.Score1).Int("score2", next.Score2).Msg("score applied")
	return next
}

func (r *roomImpl) ViewerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.viewers)
}

func (r *roomImpl) AddViewer(vs ViewerSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewers[vs.ID()] = vs
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("sid", string(vs.ID())).Msg("viewer added")
}

func (r *roomImpl) RemoveViewer(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.viewers, sid)
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("sid", string(sid)).Msg("viewer removed")
}

func (r *roomImpl) Broadcast(data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for _, v := range r.viewers {
		if err := v.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, v)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.id)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
