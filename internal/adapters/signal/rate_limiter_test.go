package signal

import (
	"testing"
	"time"

	"github.com/dkeye/ScoreStream/internal/core"
)

func TestRoomRateLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRoomRateLimiter(2, 10*time.Second)
	rl.now = func() time.Time { return now }
	sid := core.SessionID("a")

	if !rl.Allow(sid) || !rl.Allow(sid) {
		t.Fatal("first two attempts rejected")
	}
	if rl.Allow(sid) {
		t.Fatal("third attempt inside window allowed")
	}
	if !rl.Allow("b") {
		t.Error("other session limited")
	}

	now = now.Add(11 * time.Second)
	if !rl.Allow(sid) {
		t.Error("attempt after window rejected")
	}

	rl.Allow(sid)
	rl.Forget(sid)
	if !rl.Allow(sid) {
		t.Error("attempt after Forget rejected")
	}
}
