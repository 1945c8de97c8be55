package core

import (
	"time"

	"github.com/Rentonai/banner-signaling-server/internal/domain"
)

// roomState is a room's membership plus meta. Members keep their insertion
// order so rosters are stable across broadcasts.
type roomState struct {
	meta    domain.Room
	members map[domain.ConnID]*domain.Member
	order   []domain.ConnID
}

func newRoomState(code domain.RoomCode, now time.Time) *roomState {
	return &roomState{
		meta:    domain.Room{Code: code, CreatedAt: now, LastActivity: now},
		members: make(map[domain.ConnID]*domain.Member),
	}
}

func (r *roomState) memberCount() int { return len(r.members) }

func (r *roomState) contains(id domain.ConnID) bool {
	_, ok := r.members[id]
	return ok
}

// memberByNickname finds the member holding a normalized nickname.
func (r *roomState) memberByNickname(nick string) (*domain.Member, bool) {
	for _, m := range r.members {
		if m.Nickname == nick {
			return m, true
		}
	}
	return nil, false
}

// upsert inserts a member or, for a re-join from the same connection,
// updates the existing entry in place keeping its roster position.
func (r *roomState) upsert(m *domain.Member) {
	if prev, ok := r.members[m.ConnID]; ok {
		prev.Nickname = m.Nickname
		return
	}
	r.members[m.ConnID] = m
	r.order = append(r.order, m.ConnID)
}

func (r *roomState) remove(id domain.ConnID) {
	if !r.contains(id) {
		return
	}
	delete(r.members, id)
	for i, cid := range r.order {
		if cid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// roster returns the members in insertion order.
func (r *roomState) roster() []UserRef {
	out := make([]UserRef, 0, len(r.order))
	for _, id := range r.order {
		m := r.members[id]
		out = append(out, UserRef{ID: string(m.ConnID), Nickname: m.Nickname})
	}
	return out
}

func (r *roomState) touch(now time.Time) {
	r.meta.LastActivity = now
}
