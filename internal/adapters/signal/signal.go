// Package signal is the WebSocket transport adapter: it upgrades
// connections, pumps frames, and dispatches named client events into the
// core engine. It owns every transport resource; the engine never does.
package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Rentonai/banner-signaling-server/internal/config"
	"github.com/Rentonai/banner-signaling-server/internal/core"
	"github.com/Rentonai/banner-signaling-server/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Engine *core.Engine
	Cfg    *config.Config
}

func NewController(engine *core.Engine, cfg *config.Config) *Controller {
	return &Controller{Engine: engine, Cfg: cfg}
}

// wsConn is a transport endpoint. It implements core.SignalConnection.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWSConn(ws *websocket.Conn, buffer int) *wsConn {
	return &wsConn{conn: ws, send: make(chan core.Frame, buffer)}
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS upgrades the request and runs the connection until it drops.
// Admission rejection is reported on the raw socket before force-close,
// since the write pump never starts for refused connections.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	addr := clientAddr(c.Request)
	id := domain.ConnID(uuid.NewString())

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("addr", addr).Msg("new WS connection")

	conn := newWSConn(ws, ctl.Cfg.SendBuffer)
	if err := ctl.Engine.Connect(id, addr, conn); err != nil {
		if b, merr := json.Marshal(core.NewErrorEvent(err.Error())); merr == nil {
			_ = ws.WriteMessage(websocket.TextMessage, b)
		}
		conn.Close()
		return
	}

	connCtx, cancel := context.WithCancel(ctx)
	go ctl.writePump(connCtx, conn)
	go ctl.readPump(connCtx, cancel, id, conn)
}

// clientAddr extracts the originating address, preferring the first
// X-Forwarded-For hop when the server sits behind a proxy.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
