// Package ws is the client websocket transport of the scoreboard.
package ws

import (
	"context"
	"fmt"
	"time"

	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Options struct {
	HandshakeTimeout time.Duration
	WriteWait        time.Duration
	PingPeriod       time.Duration
	ReadLimit        int64
	SendBuffer       int
}

func (o Options) withDefaults() Options {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 10 * time.Second
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = 54 * time.Second
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32768
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 16
	}
	return o
}

// Dialer opens sockets to one fixed endpoint.
type Dialer struct {
	endpoint string
	opts     Options
	dialer   *websocket.Dialer
}

func NewDialer(endpoint string, opts Options) *Dialer {
	opts = opts.withDefaults()
	return &Dialer{
		endpoint: endpoint,
		opts:     opts,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: opts.HandshakeTimeout,
		},
	}
}

func (d *Dialer) Dial(ctx context.Context) (core.Transport, error) {
	conn, resp, err := d.dialer.DialContext(ctx, d.endpoint, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", d.endpoint, err)
	}
	log.Info().Str("module", "adapters.ws").Str("endpoint", d.endpoint).Msg("connected")
	return NewClientConn(conn, d.opts), nil
}
