package app

import (
	"sort"
	"strings"
	"sync"

	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/dkeye/ScoreStream/internal/domain"
	"github.com/google/uuid"
)

const roomKeyLen = 6

type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomManager() core.RoomManager {
	return &RoomManagerImpl{rooms: make(map[domain.RoomID]core.RoomService)}
}

// newRoomKey returns a short upper-case key a viewer can type.
func newRoomKey() domain.RoomID {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return domain.RoomID(strings.ToUpper(raw[:roomKeyLen]))
}

func (f *RoomManagerImpl) Create(player1, player2 string) core.RoomService {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := newRoomKey()
	for _, taken := f.rooms[id]; taken; _, taken = f.rooms[id] {
		id = newRoomKey()
	}
	room := core.NewRoomService(id, player1, player2)
	f.rooms[id] = room
	return room
}

func (f *RoomManagerImpl) GetRoom(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, core.RoomInfo{ID: id, Snapshot: r.Snapshot(), ViewerCount: r.ViewerCount()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *RoomManagerImpl) StopRoom(id domain.RoomID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, id)
}
