// Package session is the scoreboard view model: it turns the user's join
// intent and inbound room_state messages into one RoomSnapshot.
package session

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/ScoreStream/internal/app/conn"
	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/dkeye/ScoreStream/internal/domain"
	"github.com/dkeye/ScoreStream/internal/protocol"
)

var (
	ErrMissingKey    = errors.New("missing room key")
	ErrInvalidKey    = errors.New("invalid room key")
	ErrAlreadyJoined = errors.New("already joined a room")
)

const (
	NoticeMissingKey    = "Please enter room key"
	NoticeInvalidKey    = "Room key is too long"
	NoticeNotConnected  = "Not connected to server"
	NoticeAlreadyJoined = "Already watching a room"
)

// Sender is the send side of the connection manager.
type Sender interface {
	Send(core.Frame) error
}

type Options struct {
	// ResetOnDisconnect drops the snapshot and returns to the join form
	// whenever the socket is lost. When false the snapshot is kept and
	// the room is joined again once the socket is back.
	ResetOnDisconnect bool
}

type Session struct {
	sender Sender
	opts   Options

	mu        sync.RWMutex
	view      View
	pending   domain.RoomID
	listeners []func(View)
}

func New(sender Sender, opts Options) *Session {
	return &Session{
		sender: sender,
		opts:   opts,
		view: View{
			Status:   core.StateDisconnected,
			Phase:    Unjoined,
			Snapshot: domain.UnjoinedSnapshot(),
		},
	}
}

func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Subscribe registers fn to be called with every new View.
func (s *Session) Subscribe(fn func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// RequestJoin validates the key and sends join_room for it. The key is
// trimmed of surrounding whitespace and the trimmed key is what the server
// receives. Rejections are returned and also published as the View
// notice; nothing is sent then.
func (s *Session) RequestJoin(raw string) error {
	id, err := domain.NormalizeRoomKey(raw)
	switch {
	case errors.Is(err, domain.ErrRoomKeyEmpty):
		s.reject(NoticeMissingKey)
		return ErrMissingKey
	case err != nil:
		s.reject(NoticeInvalidKey)
		return ErrInvalidKey
	}

	cur := s.View()
	if cur.Joined() {
		s.reject(NoticeAlreadyJoined)
		return ErrAlreadyJoined
	}
	if cur.Status != core.StateConnected {
		s.reject(NoticeNotConnected)
		return conn.ErrNotConnected
	}

	// The reply may be handled before send returns, so the session must
	// already be awaiting it.
	s.mu.Lock()
	prevPhase, prevPending := s.view.Phase, s.pending
	s.pending = id
	if s.view.Phase == Unjoined {
		s.view.Phase = AwaitingJoin
	}
	s.view.Notice = ""
	s.mu.Unlock()

	if err := s.send(id); err != nil {
		s.mu.Lock()
		if s.pending == id && s.view.Phase == AwaitingJoin {
			s.view.Phase, s.pending = prevPhase, prevPending
		}
		s.mu.Unlock()
		if errors.Is(err, conn.ErrNotConnected) {
			s.reject(NoticeNotConnected)
		} else {
			s.publish()
		}
		return err
	}

	s.publish()
	log.Info().Str("module", "app.session").Str("room", string(id)).Msg("join requested")
	return nil
}

// OnStatus follows the connection manager state.
func (s *Session) OnStatus(st core.ConnectionState) {
	var rejoin domain.RoomID

	s.mu.Lock()
	s.view.Status = st
	switch st {
	case core.StateDisconnected:
		if s.opts.ResetOnDisconnect && s.view.Phase != Unjoined {
			log.Info().Str("module", "app.session").Str("room", string(s.view.Snapshot.RoomID)).Msg("connection lost, session reset")
			s.view.Snapshot = domain.UnjoinedSnapshot()
			s.view.Phase = Unjoined
			s.pending = ""
		}
	case core.StateConnected:
		if !s.opts.ResetOnDisconnect {
			switch s.view.Phase {
			case Joined:
				rejoin = s.view.Snapshot.RoomID
			case AwaitingJoin:
				rejoin = s.pending
			}
		}
	}
	s.mu.Unlock()
	s.publish()

	if rejoin != "" {
		if err := s.send(rejoin); err != nil {
			log.Warn().Err(err).Str("module", "app.session").Str("room", string(rejoin)).Msg("rejoin failed")
			return
		}
		log.Info().Str("module", "app.session").Str("room", string(rejoin)).Msg("rejoined after reconnect")
	}
}

// OnMessage applies inbound messages. Only room_state changes the
// snapshot; it replaces it whole.
func (s *Session) OnMessage(msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.RoomState:
		s.applyRoomState(m.Snapshot)
	case protocol.ErrorNotice:
		s.mu.Lock()
		if s.view.Phase == AwaitingJoin {
			s.view.Phase = Unjoined
			s.pending = ""
		}
		s.view.Notice = m.Reason
		s.mu.Unlock()
		log.Warn().Str("module", "app.session").Str("reason", m.Reason).Msg("server rejected request")
		s.publish()
	default:
		log.Debug().Str("module", "app.session").Str("type", msg.Kind()).Msg("ignoring message")
	}
}

func (s *Session) applyRoomState(snap domain.RoomSnapshot) {
	if !snap.Joined() {
		log.Warn().Str("module", "app.session").Msg("room_state without room id dropped")
		return
	}

	s.mu.Lock()
	cur := s.view.Snapshot.RoomID
	if cur != "" && cur != snap.RoomID {
		s.mu.Unlock()
		log.Warn().Str("module", "app.session").Str("room", string(cur)).Str("got", string(snap.RoomID)).Msg("room_state for another room dropped")
		return
	}
	s.view.Snapshot = snap
	s.view.Phase = Joined
	s.view.Notice = ""
	s.pending = ""
	s.mu.Unlock()

	log.Debug().Str("module", "app.session").Str("room", string(snap.RoomID)).
		Int("score1", snap.Score1).Int("score2", snap.Score2).Msg("snapshot replaced")
	s.publish()
}

func (s *Session) send(id domain.RoomID) error {
	frame, err := protocol.EncodeJoin(id)
	if err != nil {
		return err
	}
	return s.sender.Send(frame)
}

func (s *Session) reject(notice string) {
	s.mu.Lock()
	s.view.Notice = notice
	s.mu.Unlock()
	log.Info().Str("module", "app.session").Str("notice", notice).Msg("join rejected")
	s.publish()
}

func (s *Session) publish() {
	s.mu.RLock()
	v := s.view
	fns := make([]func(View), len(s.listeners))
	copy(fns, s.listeners)
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(v)
	}
}
