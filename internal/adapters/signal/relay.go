package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Rentonai/banner-signaling-server/internal/domain"
)

func (ctl *Controller) handleWebRTCSignal(id domain.ConnID, data []byte) {
	var p struct {
		Event          string          `json:"event"`
		TargetSocketID string          `json:"targetSocketId"`
		Signal         json.RawMessage `json:"signal"`
		Kind           string          `json:"type"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad signal payload")
		return
	}
	ctl.Engine.RelaySignal(id, p.TargetSocketID, p.Signal, p.Kind)
}

func (ctl *Controller) handleChatMessage(id domain.ConnID, data []byte) {
	var p struct {
		Event    string `json:"event"`
		Message  string `json:"message"`
		RoomCode string `json:"roomCode"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad chat payload")
		return
	}
	ctl.Engine.RelayChat(id, p.RoomCode, p.Message)
}

func (ctl *Controller) handleInvite(id domain.ConnID, data []byte) {
	var p struct {
		Event    string `json:"event"`
		FromUser string `json:"fromUser"`
		ToUser   string `json:"toUser"`
		RoomCode string `json:"roomCode"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad invite payload")
		return
	}
	ctl.Engine.PrivateInvite(id, p.FromUser, p.ToUser, p.RoomCode)
}
