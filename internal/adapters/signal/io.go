package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Rentonai/banner-signaling-server/internal/domain"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drives the connection's whole inbound life. On exit the
// connection is disconnected from the engine, which decrements the
// admission counter and runs the implicit leave.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, id domain.ConnID, c *wsConn) {
	defer func() {
		cancel()
		c.Close()
		ctl.Engine.Disconnect(id)
		log.Info().Str("module", "signal").Str("conn", string(id)).Msg("readPump closing")
	}()

	c.conn.SetReadLimit(ctl.Cfg.ReadLimit)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			ctl.dispatch(id, data)
		}
	}
}

// dispatch routes one inbound envelope to its handler. A panic in any
// handler is contained here: logged, connection kept alive.
func (ctl *Controller) dispatch(id domain.ConnID, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "signal").Str("conn", string(id)).Any("panic", r).Msg("handler panic recovered")
		}
	}()

	var env struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad json")
		return
	}

	switch env.Event {
	case "join-room":
		ctl.handleJoinRoom(id, data)
	case "leave-room":
		ctl.Engine.Leave(id)
	case "webrtc-signal":
		ctl.handleWebRTCSignal(id, data)
	case "chat-message":
		ctl.handleChatMessage(id, data)
	case "private-chat-invite":
		ctl.handleInvite(id, data)
	case "ping":
		ctl.Engine.Ping(id)
	default:
		log.Warn().Str("module", "signal").Str("event", env.Event).Msg("unknown event")
	}
}
