package conn

import (
	"github.com/dkeye/ScoreStream/internal/core"
)

// EventKind tags what happened to the connection.
type EventKind int

const (
	// ConnectRequested asks for a dial; sent by Start, Connect and the
	// reconnect timer.
	ConnectRequested EventKind = iota
	Opened
	Closed
	Errored
	MessageReceived
)

func (k EventKind) String() string {
	switch k {
	case ConnectRequested:
		return "connect_requested"
	case Opened:
		return "opened"
	case Closed:
		return "closed"
	case Errored:
		return "errored"
	case MessageReceived:
		return "message_received"
	default:
		return "unknown"
	}
}

// Event is the single inbound variant the manager loop consumes.
// Gen identifies the dial attempt a transport event belongs to.
type Event struct {
	Kind      EventKind
	Gen       uint64
	Transport core.Transport
	Payload   core.Frame
	Err       error
	// Timer is set on a ConnectRequested fired by the reconnect timer
	// and names which scheduled reconnect fired.
	Timer uint64
}

// machine is the part of the manager state the reducer owns.
type machine struct {
	Status           core.ConnectionState
	Gen              uint64
	ReconnectPending bool
	TimerSeq         uint64
}

// effects lists what the loop must do after a transition.
type effects struct {
	Dial              bool
	Adopt             bool
	CloseIncoming     bool
	DropTransport     bool
	ScheduleReconnect bool
	CancelReconnect   bool
	Notify            bool
	Dispatch          bool
}

// transition is the connection state machine. It has no side effects.
func transition(m machine, ev Event) (machine, effects) {
	var fx effects
	switch ev.Kind {
	case ConnectRequested:
		if ev.Timer != 0 {
			if !m.ReconnectPending || ev.Timer != m.TimerSeq {
				return m, fx
			}
			m.ReconnectPending = false
		}
		if m.Status != core.StateDisconnected {
			return m, fx
		}
		if m.ReconnectPending {
			m.ReconnectPending = false
			fx.CancelReconnect = true
		}
		m.Status = core.StateConnecting
		m.Gen++
		fx.Dial = true
		fx.Notify = true

	case Opened:
		if ev.Gen != m.Gen || m.Status != core.StateConnecting {
			fx.CloseIncoming = true
			return m, fx
		}
		m.Status = core.StateConnected
		fx.Adopt = true
		fx.Notify = true

	case Closed, Errored:
		if ev.Gen != m.Gen || m.Status == core.StateDisconnected {
			return m, fx
		}
		m.Status = core.StateDisconnected
		fx.DropTransport = true
		fx.Notify = true
		if !m.ReconnectPending {
			m.ReconnectPending = true
			m.TimerSeq++
			fx.ScheduleReconnect = true
		}

	case MessageReceived:
		if ev.Gen != m.Gen || m.Status != core.StateConnected {
			return m, fx
		}
		fx.Dispatch = true
	}
	return m, fx
}
