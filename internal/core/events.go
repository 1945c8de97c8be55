package core

import (
	"encoding/json"
	"time"

	"github.com/Rentonai/banner-signaling-server/internal/domain"
)

// Outbound event names. The "event" field discriminates the envelope;
// payload-level "type" fields (signal kind, message kind) stay untouched.
const (
	EvRoomJoined   = "room-joined"
	EvJoinError    = "join-error"
	EvUsersUpdated = "users-updated"
	EvUserJoined   = "user-joined"
	EvUserLeft     = "user-left"
	EvWebRTCSignal = "webrtc-signal"
	EvChatMessage  = "chat-message"
	EvInvite       = "private-chat-invite"
	EvError        = "error"
	EvPong         = "pong"
)

// UserRef is a read-only member view for rosters and deltas.
type UserRef struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

type RoomJoinedEvent struct {
	Event     string `json:"event"`
	RoomCode  string `json:"roomCode"`
	Nickname  string `json:"nickname"`
	UserCount int    `json:"userCount"`
}

type JoinErrorEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

type UsersUpdatedEvent struct {
	Event     string    `json:"event"`
	Users     []UserRef `json:"users"`
	UserCount int       `json:"userCount"`
}

type UserJoinedEvent struct {
	Event string  `json:"event"`
	User  UserRef `json:"user"`
}

type UserLeftEvent struct {
	Event string  `json:"event"`
	User  UserRef `json:"user"`
}

type SignalEvent struct {
	Event        string          `json:"event"`
	FromSocketID string          `json:"fromSocketId"`
	FromNickname string          `json:"fromNickname"`
	Signal       json.RawMessage `json:"signal"`
	Kind         string          `json:"type,omitempty"`
}

type ChatMessageEvent struct {
	Event string `json:"event"`
	domain.ChatMessage
}

type InviteEvent struct {
	Event    string `json:"event"`
	FromUser string `json:"fromUser"`
	ToUser   string `json:"toUser"`
	RoomCode string `json:"roomCode"`
}

type ErrorEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

type PongEvent struct {
	Event string `json:"event"`
}

// NewErrorEvent is used by the transport adapter to report admission
// rejection before the connection is torn down.
func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Event: EvError, Message: message}
}

// RoomInfo is the debug-surface view of one room.
type RoomInfo struct {
	Code         string    `json:"code"`
	UserCount    int       `json:"userCount"`
	Created      time.Time `json:"created"`
	LastActivity time.Time `json:"lastActivity"`
}
