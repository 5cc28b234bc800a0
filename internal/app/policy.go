package app

import "github.com/dkeye/ScoreStream/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickViewer
	DropFrame
)

// Policy decides what happens to a viewer whose send buffer is full.
type Policy interface {
	OnBackPressure(room core.RoomService, viewer core.ViewerSession) BackpressureAction
}

// SimplePolicy kicks slow viewers; they reconnect and get a fresh snapshot.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room core.RoomService, viewer core.ViewerSession) BackpressureAction {
	return KickViewer
}
