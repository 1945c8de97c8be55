package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Rentonai/banner-signaling-server/internal/domain"
)

func (ctl *Controller) handleJoinRoom(id domain.ConnID, data []byte) {
	var p struct {
		Event    string `json:"event"`
		RoomCode string `json:"roomCode"`
		Nickname string `json:"nickname"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad join payload")
		return
	}
	ctl.Engine.Join(id, p.RoomCode, p.Nickname)
}
