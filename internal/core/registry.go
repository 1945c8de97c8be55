package core

import (
	"time"

	"github.com/Rentonai/banner-signaling-server/internal/domain"
)

// Session is the per-connection record. Nickname and Room stay empty until
// the first successful join; Nickname survives leave for logging.
type Session struct {
	ID          domain.ConnID
	Addr        string
	Nickname    string
	Room        domain.RoomCode
	ConnectedAt time.Time
	JoinedAt    time.Time

	conn SignalConnection
}

// registry is the source of truth for "who is this connection".
// Not locked itself; the engine serializes all access.
type registry struct {
	sessions map[domain.ConnID]*Session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[domain.ConnID]*Session)}
}

func (r *registry) add(s *Session) {
	r.sessions[s.ID] = s
}

func (r *registry) get(id domain.ConnID) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

func (r *registry) remove(id domain.ConnID) {
	delete(r.sessions, id)
}

func (r *registry) count() int {
	return len(r.sessions)
}

// byNickname resolves a normalized nickname to a session across every room.
// Linear scan; fine at this system's scale.
func (r *registry) byNickname(nick string) (*Session, bool) {
	for _, s := range r.sessions {
		if s.Nickname == nick {
			return s, true
		}
	}
	return nil, false
}

// inRoom lists every session whose room field equals code.
func (r *registry) inRoom(code domain.RoomCode) []*Session {
	var out []*Session
	for _, s := range r.sessions {
		if s.Room == code {
			out = append(out, s)
		}
	}
	return out
}
