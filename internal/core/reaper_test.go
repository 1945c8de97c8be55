package core

import (
	"context"
	"testing"
	"time"
)

func TestReaperSweepsOnItsPeriod(t *testing.T) {
	e := NewEngine(10)
	connect(t, e, "conn-a", "1.1.1.1")
	e.Join("conn-a", "STALE", "ALICE")

	e.mu.Lock()
	e.dir.rooms["STALE"].meta.LastActivity = time.Now().Add(-31 * time.Minute)
	e.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewReaper(e, 10*time.Millisecond, 30*time.Minute)
	go r.Run(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rooms, _ := e.Stats(); rooms == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("stale room not reaped within deadline")
}
