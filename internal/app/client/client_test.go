package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	router "github.com/dkeye/ScoreStream/internal/adapters/http"
	"github.com/dkeye/ScoreStream/internal/adapters/ws"
	"github.com/dkeye/ScoreStream/internal/app"
	"github.com/dkeye/ScoreStream/internal/app/conn"
	"github.com/dkeye/ScoreStream/internal/app/orch"
	"github.com/dkeye/ScoreStream/internal/app/session"
	"github.com/dkeye/ScoreStream/internal/config"
	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/dkeye/ScoreStream/internal/domain"
)

type relay struct {
	orch *orch.Orchestrator
	url  string
}

func startRelay(t *testing.T) *relay {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Policy:   app.SimplePolicy{},
	}
	cfg := &config.Config{Mode: "test", Secret: "test-secret", ReadLimit: 4096, PingPeriod: time.Minute}
	srv := httptest.NewServer(router.SetupRouter(ctx, cfg, o))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &relay{orch: o, url: "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"}
}

// kickAll drops every viewer of a room the way the backpressure policy does.
func (r *relay) kickAll(id domain.RoomID) {
	for _, v := range r.orch.Registry.ViewersOfRoom(id) {
		r.orch.KickBySID(v.SID)
		r.orch.Registry.Cancel(v.SID)
	}
}

func (r *relay) viewers(id domain.RoomID) int {
	return len(r.orch.Registry.ViewersOfRoom(id))
}

func newClient(t *testing.T, url string, reset bool) *Client {
	t.Helper()
	c := New(ws.NewDialer(url, ws.Options{HandshakeTimeout: time.Second}),
		conn.Options{ReconnectDelay: 50 * time.Millisecond},
		session.Options{ResetOnDisconnect: reset},
	)
	t.Cleanup(c.Stop)
	return c
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestClientJoinsAndFollowsScore(t *testing.T) {
	r := startRelay(t)
	room := r.orch.Rooms.Create("Alice", "Bob")
	c := newClient(t, r.url, true)
	c.Start(context.Background())

	eventually(t, "connected", func() bool { return c.Session.View().Status == core.StateConnected })
	if err := c.Session.RequestJoin(string(room.ID())); err != nil {
		t.Fatalf("RequestJoin() error = %v", err)
	}
	eventually(t, "joined", func() bool { return c.Session.View().Joined() })

	v := c.Session.View()
	if v.Snapshot.RoomID != room.ID() || v.Snapshot.Player1 != "Alice" || v.Snapshot.Player2 != "Bob" {
		t.Fatalf("snapshot = %+v", v.Snapshot)
	}

	if _, err := r.orch.UpdateScore(room.ID(), core.ScoreUpdate{Score1: 15, Score2: 13, SetsWon2: 1}); err != nil {
		t.Fatal(err)
	}
	eventually(t, "score update", func() bool {
		s := c.Session.View().Snapshot
		return s.Score1 == 15 && s.Score2 == 13 && s.SetsWon2 == 1
	})
}

func TestClientUnknownRoomShowsNotice(t *testing.T) {
	r := startRelay(t)
	c := newClient(t, r.url, true)
	c.Start(context.Background())
	eventually(t, "connected", func() bool { return c.Session.View().Status == core.StateConnected })

	if err := c.Session.RequestJoin("NOPE"); err != nil {
		t.Fatal(err)
	}
	eventually(t, "notice", func() bool {
		v := c.Session.View()
		return v.Phase == session.Unjoined && v.Notice != ""
	})
}

func TestClientRejoinsAfterKick(t *testing.T) {
	r := startRelay(t)
	room := r.orch.Rooms.Create("Alice", "Bob")
	c := newClient(t, r.url, false)
	c.JoinWhenConnected(string(room.ID()))
	c.Start(context.Background())

	eventually(t, "joined", func() bool { return c.Session.View().Joined() && r.viewers(room.ID()) == 1 })
	if _, err := r.orch.UpdateScore(room.ID(), core.ScoreUpdate{Score1: 4}); err != nil {
		t.Fatal(err)
	}
	eventually(t, "first score", func() bool { return c.Session.View().Snapshot.Score1 == 4 })

	r.kickAll(room.ID())
	eventually(t, "rejoined", func() bool {
		v := c.Session.View()
		return v.Status == core.StateConnected && r.viewers(room.ID()) == 1
	})
	if s := c.Session.View().Snapshot; s.Score1 != 4 {
		t.Errorf("snapshot lost across reconnect: %+v", s)
	}

	if _, err := r.orch.UpdateScore(room.ID(), core.ScoreUpdate{Score1: 5}); err != nil {
		t.Fatal(err)
	}
	eventually(t, "score after rejoin", func() bool { return c.Session.View().Snapshot.Score1 == 5 })
}

func TestClientResetsAndAutoJoinsAfterKick(t *testing.T) {
	r := startRelay(t)
	room := r.orch.Rooms.Create("", "")
	c := newClient(t, r.url, true)

	var lost atomic.Bool
	c.Session.Subscribe(func(v session.View) {
		if v.Status == core.StateDisconnected && !v.Joined() {
			lost.Store(true)
		}
	})
	c.JoinWhenConnected(string(room.ID()))
	c.Start(context.Background())
	eventually(t, "joined", func() bool { return c.Session.View().Joined() && r.viewers(room.ID()) == 1 })

	r.kickAll(room.ID())
	eventually(t, "auto rejoin", func() bool { return c.Session.View().Joined() && r.viewers(room.ID()) == 1 && lost.Load() })
	if s := c.Session.View().Snapshot; s.Player1 != domain.DefaultPlayer1 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestClientStopDisconnects(t *testing.T) {
	r := startRelay(t)
	c := newClient(t, r.url, true)
	c.Start(context.Background())
	eventually(t, "connected", func() bool { return c.Manager.Status() == core.StateConnected })

	c.Stop()
	if err := c.Manager.Send(core.Frame(`{"type":"ping"}`)); !errors.Is(err, conn.ErrNotConnected) {
		t.Errorf("Send after Stop = %v, want ErrNotConnected", err)
	}
}
