package core

import (
	"time"

	"github.com/Rentonai/banner-signaling-server/internal/domain"
)

// directory maps normalized room codes to live room state. Rooms are
// created lazily on first join and removed the moment they empty out.
type directory struct {
	rooms map[domain.RoomCode]*roomState
}

func newDirectory() *directory {
	return &directory{rooms: make(map[domain.RoomCode]*roomState)}
}

func (d *directory) get(code domain.RoomCode) (*roomState, bool) {
	r, ok := d.rooms[code]
	return r, ok
}

func (d *directory) getOrCreate(code domain.RoomCode, now time.Time) *roomState {
	if r, ok := d.rooms[code]; ok {
		return r
	}
	r := newRoomState(code, now)
	d.rooms[code] = r
	return r
}

func (d *directory) delete(code domain.RoomCode) {
	delete(d.rooms, code)
}

func (d *directory) count() int {
	return len(d.rooms)
}

// idleBefore collects codes of rooms whose last activity predates cutoff.
func (d *directory) idleBefore(cutoff time.Time) []domain.RoomCode {
	var out []domain.RoomCode
	for code, r := range d.rooms {
		if r.meta.LastActivity.Before(cutoff) {
			out = append(out, code)
		}
	}
	return out
}

func (d *directory) snapshot() []RoomInfo {
	out := make([]RoomInfo, 0, len(d.rooms))
	for _, r := range d.rooms {
		out = append(out, RoomInfo{
			Code:         string(r.meta.Code),
			UserCount:    r.memberCount(),
			Created:      r.meta.CreatedAt,
			LastActivity: r.meta.LastActivity,
		})
	}
	return out
}
