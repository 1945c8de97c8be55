package domain

import (
	"strings"
	"time"
)

// RoomCode is a case-normalized room identifier chosen by clients.
type RoomCode string

// NormalizeRoomCode trims and uppercases a raw room code.
func NormalizeRoomCode(raw string) (RoomCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", ErrRoomCodeEmpty
	}
	if len(code) > MaxRoomCodeLen {
		return "", ErrRoomCodeTooLong
	}
	return RoomCode(code), nil
}

// Member is a lightweight record of one connection's participation in a room.
type Member struct {
	ConnID   ConnID
	Nickname string
	JoinedAt time.Time
}

// Room is the directory-level meta of a room. Membership lives with the
// engine's room state, not here.
type Room struct {
	Code         RoomCode
	CreatedAt    time.Time
	LastActivity time.Time
}
