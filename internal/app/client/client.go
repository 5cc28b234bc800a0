// Package client wires the connection manager and the session view model
// into one startable scoreboard client.
package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/ScoreStream/internal/adapters/ws"
	"github.com/dkeye/ScoreStream/internal/app/conn"
	"github.com/dkeye/ScoreStream/internal/app/session"
	"github.com/dkeye/ScoreStream/internal/config"
	"github.com/dkeye/ScoreStream/internal/core"
)

type Client struct {
	Manager *conn.Manager
	Session *session.Session
}

// New builds a client around any dialer; tests pass fakes.
func New(dialer core.Dialer, connOpts conn.Options, sessOpts session.Options) *Client {
	m := conn.NewManager(dialer, connOpts)
	s := session.New(m, sessOpts)
	m.Subscribe(s)
	return &Client{Manager: m, Session: s}
}

// FromConfig builds a client that dials cfg.Endpoint over websocket.
func FromConfig(cfg *config.Config) *Client {
	dialer := ws.NewDialer(cfg.Endpoint, ws.Options{
		HandshakeTimeout: cfg.HandshakeTimeout,
		WriteWait:        cfg.WriteWait,
		PingPeriod:       cfg.PingPeriod,
		ReadLimit:        cfg.ReadLimit,
	})
	return New(dialer,
		conn.Options{ReconnectDelay: cfg.ReconnectDelay},
		session.Options{ResetOnDisconnect: cfg.ResetOnDisconnect},
	)
}

func (c *Client) Start(ctx context.Context) { c.Manager.Start(ctx) }

func (c *Client) Stop() { c.Manager.Stop() }

// JoinWhenConnected sends the join for key every time a connection comes
// up while no room is joined. Used for the --room flag.
func (c *Client) JoinWhenConnected(key string) {
	if key == "" {
		return
	}
	var (
		mu   sync.Mutex
		prev = core.StateDisconnected
	)
	c.Session.Subscribe(func(v session.View) {
		mu.Lock()
		rising := prev != core.StateConnected && v.Status == core.StateConnected
		prev = v.Status
		mu.Unlock()
		if !rising || v.Phase != session.Unjoined {
			return
		}
		if err := c.Session.RequestJoin(key); err != nil {
			log.Warn().Err(err).Str("module", "app.client").Str("room", key).Msg("auto join failed")
		}
	})
}
