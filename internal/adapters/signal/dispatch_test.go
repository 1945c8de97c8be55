package signal

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rentonai/banner-signaling-server/internal/config"
	"github.com/Rentonai/banner-signaling-server/internal/core"
)

type fakeConn struct {
	frames []core.Frame
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func testController(t *testing.T) (*Controller, *core.Engine) {
	t.Helper()
	cfg := &config.Config{
		MaxConnsPerAddr: 10,
		ReadLimit:       32768,
		PingPeriod:      54 * time.Second,
		SendBuffer:      32,
	}
	engine := core.NewEngine(cfg.MaxConnsPerAddr)
	return NewController(engine, cfg), engine
}

func lastEvent(t *testing.T, f *fakeConn) map[string]any {
	t.Helper()
	if len(f.frames) == 0 {
		t.Fatal("no frames captured")
	}
	var m map[string]any
	if err := json.Unmarshal(f.frames[len(f.frames)-1], &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestDispatchJoinRoom(t *testing.T) {
	ctl, engine := testController(t)
	c := &fakeConn{}
	if err := engine.Connect("conn-1", "1.1.1.1", c); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	ctl.dispatch("conn-1", []byte(`{"event":"join-room","roomCode":"lobby","nickname":"alice"}`))

	var first map[string]any
	if err := json.Unmarshal(c.frames[0], &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first["event"] != core.EvRoomJoined || first["nickname"] != "ALICE" {
		t.Fatalf("ack = %v", first)
	}
}

func TestDispatchChatAndSignal(t *testing.T) {
	ctl, engine := testController(t)
	a := &fakeConn{}
	b := &fakeConn{}
	_ = engine.Connect("conn-a", "1.1.1.1", a)
	_ = engine.Connect("conn-b", "2.2.2.2", b)

	ctl.dispatch("conn-a", []byte(`{"event":"join-room","roomCode":"ROOM","nickname":"alice"}`))
	ctl.dispatch("conn-b", []byte(`{"event":"join-room","roomCode":"ROOM","nickname":"bob"}`))
	b.frames = nil

	ctl.dispatch("conn-a", []byte(`{"event":"chat-message","roomCode":"ROOM","message":"hey"}`))
	if ev := lastEvent(t, b); ev["event"] != core.EvChatMessage || ev["content"] != "hey" {
		t.Fatalf("chat = %v", ev)
	}

	ctl.dispatch("conn-a", []byte(`{"event":"webrtc-signal","targetSocketId":"conn-b","signal":{"sdp":"x"},"type":"offer"}`))
	if ev := lastEvent(t, b); ev["event"] != core.EvWebRTCSignal || ev["type"] != "offer" {
		t.Fatalf("signal = %v", ev)
	}

	ctl.dispatch("conn-a", []byte(`{"event":"private-chat-invite","fromUser":"ALICE","toUser":"bob","roomCode":"ROOM"}`))
	if ev := lastEvent(t, b); ev["event"] != core.EvInvite {
		t.Fatalf("invite = %v", ev)
	}

	ctl.dispatch("conn-b", []byte(`{"event":"leave-room"}`))
	if rooms, _ := engine.Stats(); rooms != 1 {
		t.Fatalf("room count after leave = %d", rooms)
	}
}

func TestDispatchToleratesGarbage(t *testing.T) {
	ctl, engine := testController(t)
	c := &fakeConn{}
	_ = engine.Connect("conn-1", "1.1.1.1", c)

	// None of these may panic or kill the connection.
	ctl.dispatch("conn-1", []byte(`not json at all`))
	ctl.dispatch("conn-1", []byte(`{"event":"no-such-event"}`))
	ctl.dispatch("conn-1", []byte(`{"event":"join-room","roomCode":7}`))
	ctl.dispatch("conn-1", []byte(`{}`))

	if _, conns := engine.Stats(); conns != 1 {
		t.Fatalf("connection dropped on garbage input")
	}
}

func TestClientAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	r.RemoteAddr = "10.0.0.5:41234"
	if got := clientAddr(r); got != "10.0.0.5" {
		t.Fatalf("clientAddr = %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := clientAddr(r); got != "203.0.113.7" {
		t.Fatalf("clientAddr with XFF = %q", got)
	}
}
