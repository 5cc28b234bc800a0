// Package conn owns the client socket: it dials, notices loss, schedules
// exactly one reconnect per loss and hands decoded frames to subscribers.
package conn

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/dkeye/ScoreStream/internal/protocol"
)

const DefaultReconnectDelay = 5 * time.Second

var ErrNotConnected = errors.New("not connected")

// Subscriber is called from the manager loop, one call at a time.
type Subscriber interface {
	OnStatus(core.ConnectionState)
	OnMessage(protocol.Message)
}

type Options struct {
	ReconnectDelay time.Duration
	Scheduler      Scheduler
}

type Manager struct {
	dialer core.Dialer
	delay  time.Duration
	sched  Scheduler
	events chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	mu        sync.RWMutex
	status    core.ConnectionState
	transport core.Transport
	subs      []Subscriber
	started   bool

	// owned by the loop goroutine
	state machine
	timer Timer

	stopOnce sync.Once
}

func NewManager(dialer core.Dialer, opts Options) *Manager {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = realScheduler{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		dialer: dialer,
		delay:  opts.ReconnectDelay,
		sched:  opts.Scheduler,
		events: make(chan Event, 64),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (m *Manager) Subscribe(s Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, s)
}

func (m *Manager) Status() core.ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Start runs the event loop and issues the first connect. The manager
// stops when parent is cancelled or Stop is called.
func (m *Manager) Start(parent context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	context.AfterFunc(parent, m.cancel)
	m.wg.Go(m.run)
	m.Connect()
}

// Connect asks for a dial. It is a no-op while connecting or connected.
func (m *Manager) Connect() {
	m.post(Event{Kind: ConnectRequested})
}

// Send queues one text frame. It fails with ErrNotConnected unless the
// socket is open.
func (m *Manager) Send(frame core.Frame) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.status != core.StateConnected || m.transport == nil {
		return ErrNotConnected
	}
	return m.transport.TrySend(frame)
}

// Stop closes the socket, cancels a pending reconnect and waits for the
// loop to exit. No dial happens after Stop returns.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.cancel()
		m.wg.Wait()
		m.drain()
		log.Info().Str("module", "app.conn").Msg("stopped")
	})
}

func (m *Manager) post(ev Event) bool {
	select {
	case <-m.ctx.Done():
		return false
	default:
	}
	select {
	case m.events <- ev:
		return true
	case <-m.ctx.Done():
		return false
	}
}

func (m *Manager) run() {
	defer m.teardown()
	for {
		select {
		case <-m.ctx.Done():
			return
		case ev := <-m.events:
			m.handle(ev)
		}
	}
}

func (m *Manager) handle(ev Event) {
	prev := m.state.Status
	next, fx := transition(m.state, ev)
	m.state = next

	if fx.CloseIncoming && ev.Transport != nil {
		log.Debug().Str("module", "app.conn").Uint64("gen", ev.Gen).Msg("closing stale transport")
		ev.Transport.Close()
	}
	if fx.CancelReconnect && m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}

	var old core.Transport
	m.mu.Lock()
	if fx.DropTransport {
		old, m.transport = m.transport, nil
	}
	if fx.Adopt {
		m.transport = ev.Transport
	}
	m.status = next.Status
	m.mu.Unlock()

	if old != nil {
		old.Close()
	}
	if fx.Adopt {
		ev.Transport.Start(attempt{m: m, gen: next.Gen})
	}

	if prev != next.Status {
		l := log.Info()
		if ev.Err != nil {
			l = log.Warn().Err(ev.Err)
		}
		l.Str("module", "app.conn").Str("from", prev.String()).Str("to", next.Status.String()).
			Str("event", ev.Kind.String()).Msg("connection state")
	}

	if fx.ScheduleReconnect {
		seq := next.TimerSeq
		m.timer = m.sched.AfterFunc(m.delay, func() {
			m.post(Event{Kind: ConnectRequested, Timer: seq})
		})
		log.Info().Str("module", "app.conn").Dur("delay", m.delay).Msg("reconnect scheduled")
	}
	if fx.Dial {
		gen := next.Gen
		m.wg.Go(func() { m.dial(gen) })
	}
	if fx.Notify {
		for _, s := range m.subscribers() {
			s.OnStatus(next.Status)
		}
	}
	if fx.Dispatch {
		m.dispatch(ev.Payload)
	}
}

func (m *Manager) dial(gen uint64) {
	t, err := m.dialer.Dial(m.ctx)
	if err != nil {
		m.post(Event{Kind: Errored, Gen: gen, Err: err})
		return
	}
	if !m.post(Event{Kind: Opened, Gen: gen, Transport: t}) {
		t.Close()
	}
}

func (m *Manager) dispatch(payload core.Frame) {
	msg, err := protocol.Decode(payload)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.conn").Int("len", len(payload)).Msg("dropping inbound frame")
		return
	}
	for _, s := range m.subscribers() {
		s.OnMessage(msg)
	}
}

func (m *Manager) subscribers() []Subscriber {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Subscriber, len(m.subs))
	copy(out, m.subs)
	return out
}

func (m *Manager) teardown() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Lock()
	t := m.transport
	m.transport = nil
	m.status = core.StateDisconnected
	m.mu.Unlock()
	if t != nil {
		t.Close()
	}
	m.drain()
}

// drain closes sockets from dial results that raced the shutdown.
func (m *Manager) drain() {
	for {
		select {
		case ev := <-m.events:
			if ev.Kind == Opened && ev.Transport != nil {
				ev.Transport.Close()
			}
		default:
			return
		}
	}
}

// attempt routes transport callbacks into the loop, tagged with the dial
// generation they belong to.
type attempt struct {
	m   *Manager
	gen uint64
}

func (a attempt) Frame(f core.Frame) {
	a.m.post(Event{Kind: MessageReceived, Gen: a.gen, Payload: f})
}

func (a attempt) Closed(err error) {
	kind := Closed
	if err != nil {
		kind = Errored
	}
	a.m.post(Event{Kind: kind, Gen: a.gen, Err: err})
}
