// Package core implements the room/session state machine and relay engine:
// admission, membership, presence, signaling and chat forwarding, and the
// idle-room reaper hook. All state is in-memory and dies with the process.
package core

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/Rentonai/banner-signaling-server/internal/domain"
)

// ErrAddressLimit is returned by Connect when the per-address ceiling is hit.
var ErrAddressLimit = errors.New("too many connections from this address")

// Engine owns the session registry, the room directory and the admission
// counters. A single mutex serializes every mutating operation, so each
// inbound event runs to completion before the next one touches state and
// the presence ordering guarantees hold without per-room locking.
type Engine struct {
	mu        sync.Mutex
	reg       *registry
	dir       *directory
	guard     *addressGuard
	startedAt time.Time
}

func NewEngine(maxConnsPerAddr int) *Engine {
	return &Engine{
		reg:       newRegistry(),
		dir:       newDirectory(),
		guard:     newAddressGuard(maxConnsPerAddr),
		startedAt: time.Now(),
	}
}

// Connect admits a new connection and creates its session. On ErrAddressLimit
// the caller must tell the client why and force-close the socket.
func (e *Engine) Connect(id domain.ConnID, addr string, conn SignalConnection) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.guard.allow(addr) {
		log.Warn().Str("module", "core.engine").Str("addr", addr).Str("conn", string(id)).Msg("connection refused: address limit")
		return ErrAddressLimit
	}
	e.reg.add(&Session{ID: id, Addr: addr, ConnectedAt: time.Now(), conn: conn})
	log.Info().Str("module", "core.engine").Str("conn", string(id)).Str("addr", addr).Msg("connected")
	return nil
}

// Disconnect tears a connection down: implicit leave, session destruction,
// admission counter decrement. Safe to call for unknown ids.
func (e *Engine) Disconnect(id domain.ConnID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, ok := e.reg.get(id)
	if !ok {
		return
	}
	e.leaveLocked(sess)
	e.guard.release(sess.Addr)
	e.reg.remove(id)
	log.Info().Str("module", "core.engine").Str("conn", string(id)).Str("nickname", sess.Nickname).Msg("disconnected")
}

// Join validates and normalizes the request, enforces per-room nickname
// uniqueness and makes the session a member of the room. Emission order:
// ack to the joiner, join delta to the others, roster to the whole room.
func (e *Engine) Join(id domain.ConnID, rawRoom, rawNick string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, ok := e.reg.get(id)
	if !ok {
		return
	}

	code, err := domain.NormalizeRoomCode(rawRoom)
	if err != nil {
		e.send(sess.conn, JoinErrorEvent{Event: EvJoinError, Message: err.Error()})
		return
	}
	nick, err := domain.NormalizeNickname(rawNick)
	if err != nil {
		e.send(sess.conn, JoinErrorEvent{Event: EvJoinError, Message: err.Error()})
		return
	}

	now := time.Now()
	if room, ok := e.dir.get(code); ok {
		if taken, found := room.memberByNickname(nick); found && taken.ConnID != id {
			e.send(sess.conn, JoinErrorEvent{Event: EvJoinError, Message: "nickname already taken"})
			return
		}
	}

	// Switching rooms is an implicit leave of the previous one.
	if sess.Room != "" && sess.Room != code {
		e.leaveLocked(sess)
	}

	room := e.dir.getOrCreate(code, now)
	sess.Nickname = nick
	sess.Room = code
	sess.JoinedAt = now
	room.upsert(&domain.Member{ConnID: id, Nickname: nick, JoinedAt: now})
	room.touch(now)

	log.Info().Str("module", "core.engine").Str("conn", string(id)).Str("room", string(code)).Str("nickname", nick).Int("members", room.memberCount()).Msg("joined room")

	e.send(sess.conn, RoomJoinedEvent{
		Event:     EvRoomJoined,
		RoomCode:  string(code),
		Nickname:  nick,
		UserCount: room.memberCount(),
	})
	e.broadcast(room, id, UserJoinedEvent{Event: EvUserJoined, User: UserRef{ID: string(id), Nickname: nick}})
	e.broadcast(room, "", UsersUpdatedEvent{Event: EvUsersUpdated, Users: room.roster(), UserCount: room.memberCount()})
}

// Leave removes the connection from its current room, if any.
func (e *Engine) Leave(id domain.ConnID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sess, ok := e.reg.get(id); ok {
		e.leaveLocked(sess)
	}
}

// leaveLocked mutates membership and emits the leave delta plus a fresh
// roster to the remaining members. Empty rooms are deleted on the spot.
func (e *Engine) leaveLocked(sess *Session) {
	if sess.Room == "" {
		return
	}
	code := sess.Room
	sess.Room = ""

	room, ok := e.dir.get(code)
	if !ok {
		return
	}
	room.remove(sess.ID)
	room.touch(time.Now())

	log.Info().Str("module", "core.engine").Str("conn", string(sess.ID)).Str("room", string(code)).Str("nickname", sess.Nickname).Msg("left room")

	if room.memberCount() == 0 {
		e.dir.delete(code)
		log.Info().Str("module", "core.engine").Str("room", string(code)).Msg("room empty, deleted")
		return
	}
	e.broadcast(room, "", UserLeftEvent{Event: EvUserLeft, User: UserRef{ID: string(sess.ID), Nickname: sess.Nickname}})
	e.broadcast(room, "", UsersUpdatedEvent{Event: EvUsersUpdated, Users: room.roster(), UserCount: room.memberCount()})
}

// RelaySignal forwards a negotiation payload verbatim to one target
// connection, tagged with the sender's id and nickname. Missing target,
// missing payload or a vanished target all drop silently.
func (e *Engine) RelaySignal(id domain.ConnID, target string, signal json.RawMessage, kind string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if target == "" || len(signal) == 0 {
		log.Debug().Str("module", "core.engine").Str("conn", string(id)).Msg("signal dropped: missing target or payload")
		return
	}
	sess, ok := e.reg.get(id)
	if !ok {
		return
	}
	dst, ok := e.reg.get(domain.ConnID(target))
	if !ok {
		log.Debug().Str("module", "core.engine").Str("conn", string(id)).Str("target", target).Msg("signal dropped: target gone")
		return
	}
	e.send(dst.conn, SignalEvent{
		Event:        EvWebRTCSignal,
		FromSocketID: string(id),
		FromNickname: sess.Nickname,
		Signal:       signal,
		Kind:         kind,
	})
}

// RelayChat broadcasts chat text to every other member of the sender's room.
// The room claim must match the sender's actual membership; violations and
// oversized or empty text drop silently, this is a best-effort relay.
func (e *Engine) RelayChat(id domain.ConnID, rawRoom, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, ok := e.reg.get(id)
	if !ok {
		return
	}
	code, err := domain.NormalizeRoomCode(rawRoom)
	if err != nil || sess.Room != code {
		log.Debug().Str("module", "core.engine").Str("conn", string(id)).Str("claimed", rawRoom).Msg("chat dropped: room mismatch")
		return
	}
	if text == "" || utf8.RuneCountInString(text) > domain.MaxChatLen {
		log.Debug().Str("module", "core.engine").Str("conn", string(id)).Int("len", len(text)).Msg("chat dropped: bad length")
		return
	}
	room, ok := e.dir.get(code)
	if !ok || !room.contains(id) {
		log.Debug().Str("module", "core.engine").Str("conn", string(id)).Str("room", string(code)).Msg("chat dropped: not a member")
		return
	}

	msg := domain.NewChatMessage(sess.Nickname, text)
	e.broadcast(room, id, ChatMessageEvent{Event: EvChatMessage, ChatMessage: msg})
	room.touch(time.Now())
}

// PrivateInvite resolves a nickname across the whole registry and delivers
// the invitation to that one connection. An unknown target drops silently;
// the inviter intentionally gets no feedback.
func (e *Engine) PrivateInvite(id domain.ConnID, fromUser, toUser, roomCode string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	nick, err := domain.NormalizeNickname(toUser)
	if err != nil {
		return
	}
	dst, ok := e.reg.byNickname(nick)
	if !ok {
		log.Debug().Str("module", "core.engine").Str("conn", string(id)).Str("to", nick).Msg("invite dropped: nickname not connected")
		return
	}
	e.send(dst.conn, InviteEvent{
		Event:    EvInvite,
		FromUser: fromUser,
		ToUser:   toUser,
		RoomCode: roomCode,
	})
}

// Ping answers a keepalive probe on the session's own connection.
func (e *Engine) Ping(id domain.ConnID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sess, ok := e.reg.get(id); ok {
		e.send(sess.conn, PongEvent{Event: EvPong})
	}
}

// ReapIdle evicts every room idle longer than ttl, members or not. Sessions
// still pointing at a reaped room get their room field cleared so the
// registry never dangles. Returns the number of rooms evicted.
func (e *Engine) ReapIdle(ttl time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	codes := e.dir.idleBefore(cutoff)
	for _, code := range codes {
		for _, sess := range e.reg.inRoom(code) {
			sess.Room = ""
		}
		e.dir.delete(code)
		log.Info().Str("module", "core.engine").Str("room", string(code)).Msg("reaped idle room")
	}
	return len(codes)
}

// Stats reports aggregate counts for the debug surface.
func (e *Engine) Stats() (rooms, connections int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dir.count(), e.reg.count()
}

// Rooms snapshots the directory for the debug surface.
func (e *Engine) Rooms() []RoomInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dir.snapshot()
}

// StartedAt is the engine creation time, used for uptime reporting.
func (e *Engine) StartedAt() time.Time { return e.startedAt }

// broadcast fans an event out to every member of the room except skip.
// Delivery failure to one member never blocks or fails the others.
func (e *Engine) broadcast(room *roomState, skip domain.ConnID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "core.engine").Msg("broadcast marshal")
		return
	}
	for _, cid := range room.order {
		if cid == skip {
			continue
		}
		if sess, ok := e.reg.get(cid); ok {
			_ = sess.conn.TrySend(Frame(b))
		}
	}
}

func (e *Engine) send(conn SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "core.engine").Msg("send marshal")
		return
	}
	_ = conn.TrySend(Frame(b))
}
