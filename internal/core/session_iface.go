package core

type SessionID string

// ViewerSession binds a relay viewer to its transport endpoint.
// This is what a room stores and fans out to.
type ViewerSession interface {
	ID() SessionID
	Signal() SignalConnection
}

type viewerSession struct {
	sid    SessionID
	signal SignalConnection
}

func NewViewerSession(sid SessionID, signal SignalConnection) ViewerSession {
	return &viewerSession{sid: sid, signal: signal}
}

func (v *viewerSession) ID() SessionID            { return v.sid }
func (v *viewerSession) Signal() SignalConnection { return v.signal }
