package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rentonai/banner-signaling-server/internal/config"
	"github.com/Rentonai/banner-signaling-server/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		Mode:            "release",
		Port:            3001,
		MaxConnsPerAddr: 10,
		ReadLimit:       32768,
		PingPeriod:      54 * time.Second,
		SendBuffer:      32,
		RoomTTL:         30 * time.Minute,
		ReapInterval:    5 * time.Minute,
		ICEServers: []config.ICEServer{
			{URLs: []string{"stun:stun.l.google.com:19302"}},
		},
	}
}

type nullConn struct{}

func (nullConn) TrySend(core.Frame) error { return nil }
func (nullConn) Close()                   {}

func TestStatusEndpoint(t *testing.T) {
	engine := core.NewEngine(10)
	r := SetupRouter(context.Background(), testConfig(), engine)

	_ = engine.Connect("conn-1", "1.1.1.1", nullConn{})
	engine.Join("conn-1", "LOBBY", "ALICE")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" || body["rooms"] != float64(1) || body["connections"] != float64(1) {
		t.Fatalf("body = %v", body)
	}
	if body["uptime"] == "" {
		t.Fatal("uptime missing")
	}
}

func TestRoomsEndpoint(t *testing.T) {
	engine := core.NewEngine(10)
	r := SetupRouter(context.Background(), testConfig(), engine)

	_ = engine.Connect("conn-1", "1.1.1.1", nullConn{})
	_ = engine.Connect("conn-2", "2.2.2.2", nullConn{})
	engine.Join("conn-1", "LOBBY", "ALICE")
	engine.Join("conn-2", "LOBBY", "BOB")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/rooms", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/rooms = %d", w.Code)
	}
	var body struct {
		Rooms []struct {
			Code         string    `json:"code"`
			UserCount    int       `json:"userCount"`
			Created      time.Time `json:"created"`
			LastActivity time.Time `json:"lastActivity"`
		} `json:"rooms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Rooms) != 1 {
		t.Fatalf("rooms = %+v", body.Rooms)
	}
	room := body.Rooms[0]
	if room.Code != "LOBBY" || room.UserCount != 2 || room.Created.IsZero() || room.LastActivity.IsZero() {
		t.Fatalf("room = %+v", room)
	}
}

func TestICEEndpoint(t *testing.T) {
	engine := core.NewEngine(10)
	r := SetupRouter(context.Background(), testConfig(), engine)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/ice", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/ice = %d", w.Code)
	}
	var body struct {
		ICEServers []struct {
			URLs []string `json:"urls"`
		} `json:"iceServers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.ICEServers) != 1 || body.ICEServers[0].URLs[0] != "stun:stun.l.google.com:19302" {
		t.Fatalf("body = %+v", body)
	}
}
