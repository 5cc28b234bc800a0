package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSConn is an indirection over *websocket.Conn to ease testing.
type WSConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(mt int, data []byte) error
	WriteControl(mt int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	Close() error
}

// ClientConn is one dialed socket. It implements core.Transport.
type ClientConn struct {
	conn WSConn
	opts Options
	send chan core.Frame
	done chan struct{}

	once        sync.Once
	started     atomic.Bool
	ownerClosed atomic.Bool
}

func NewClientConn(conn WSConn, opts Options) *ClientConn {
	opts = opts.withDefaults()
	return &ClientConn{
		conn: conn,
		opts: opts,
		send: make(chan core.Frame, opts.SendBuffer),
		done: make(chan struct{}),
	}
}

func (c *ClientConn) TrySend(f core.Frame) error {
	select {
	case <-c.done:
		return core.ErrConnClosed
	default:
	}
	select {
	case <-c.done:
		return core.ErrConnClosed
	case c.send <- f:
		return nil
	default:
		return core.ErrBackpressure
	}
}

// Close is idempotent. A connection closed by its owner never reports
// Closed to its events.
func (c *ClientConn) Close() {
	c.ownerClosed.Store(true)
	c.shutdown()
}

func (c *ClientConn) shutdown() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.opts.WriteWait))
		_ = c.conn.Close()
	})
}

// Start launches the read and write pumps; only the first call counts.
func (c *ClientConn) Start(events core.TransportEvents) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	go c.writePump()
	go c.readPump(events)
}

func (c *ClientConn) readPump(events core.TransportEvents) {
	pongWait := c.opts.PingPeriod * 10 / 9
	c.conn.SetReadLimit(c.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var err error
	for {
		var data []byte
		_, data, err = c.conn.ReadMessage()
		if err != nil {
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		events.Frame(data)
	}

	c.shutdown()
	if c.ownerClosed.Load() {
		return
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Info().Str("module", "adapters.ws").Msg("server closed connection")
		events.Closed(nil)
		return
	}
	events.Closed(err)
}

func (c *ClientConn) writePump() {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
	}()
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Msg("writePump ping error")
				return
			}
		}
	}
}
