package conn

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/dkeye/ScoreStream/internal/protocol"
)

type fakeTransport struct {
	mu      sync.Mutex
	sent    []core.Frame
	closed  bool
	events  core.TransportEvents
	started chan struct{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{started: make(chan struct{})}
}

func (f *fakeTransport) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return core.ErrConnClosed
	}
	f.sent = append(f.sent, fr)
	return nil
}

func (f *fakeTransport) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeTransport) Start(ev core.TransportEvents) {
	f.mu.Lock()
	f.events = ev
	f.mu.Unlock()
	close(f.started)
}

func (f *fakeTransport) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeTransport) sentFrames() []core.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Frame(nil), f.sent...)
}

func (f *fakeTransport) deliver(t *testing.T, payload string) {
	t.Helper()
	f.waitStarted(t)
	f.events.Frame(core.Frame(payload))
}

func (f *fakeTransport) drop(t *testing.T, err error) {
	t.Helper()
	f.waitStarted(t)
	f.events.Closed(err)
}

func (f *fakeTransport) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(2 * time.Second):
		t.Fatal("transport was never started")
	}
}

type fakeDialer struct {
	mu    sync.Mutex
	calls int
	fail  error
	conns chan *fakeTransport
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{conns: make(chan *fakeTransport, 16)}
}

func (d *fakeDialer) Dial(ctx context.Context) (core.Transport, error) {
	d.mu.Lock()
	d.calls++
	err := d.fail
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t := newFakeTransport()
	d.conns <- t
	return t, nil
}

func (d *fakeDialer) setFail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = err
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *fakeDialer) next(t *testing.T) *fakeTransport {
	t.Helper()
	select {
	case c := <-d.conns:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no dial happened")
		return nil
	}
}

type fakeTimer struct {
	s       *fakeScheduler
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler never fires on its own; tests call fire.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
	delays []time.Duration
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, f: f}
	s.timers = append(s.timers, t)
	s.delays = append(s.delays, d)
	return t
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (s *fakeScheduler) created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// fire runs every pending timer.
func (s *fakeScheduler) fire() {
	s.mu.Lock()
	var due []func()
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t.f)
		}
	}
	s.mu.Unlock()
	for _, f := range due {
		f()
	}
}

// fireAnyway runs every timer callback, stopped or not, like a timer
// whose Stop lost the race with its expiry.
func (s *fakeScheduler) fireAnyway() {
	s.mu.Lock()
	due := make([]func(), 0, len(s.timers))
	for _, t := range s.timers {
		t.fired = true
		due = append(due, t.f)
	}
	s.mu.Unlock()
	for _, f := range due {
		f()
	}
}

type recorder struct {
	mu       sync.Mutex
	statuses []core.ConnectionState
	msgs     []protocol.Message
}

func (r *recorder) OnStatus(s core.ConnectionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

func (r *recorder) OnMessage(m protocol.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

func (r *recorder) messages() []protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Message(nil), r.msgs...)
}

func (r *recorder) statusLog() []core.ConnectionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.ConnectionState(nil), r.statuses...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
