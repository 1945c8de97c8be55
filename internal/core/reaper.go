package core

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Reaper periodically sweeps the room directory and evicts rooms whose
// last activity exceeds the TTL. It is a safety net against leaked state;
// the primary cleanup path is immediate empty-room deletion on leave.
type Reaper struct {
	engine   *Engine
	interval time.Duration
	ttl      time.Duration
}

func NewReaper(engine *Engine, interval, ttl time.Duration) *Reaper {
	return &Reaper{engine: engine, interval: interval, ttl: ttl}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info().Str("module", "core.reaper").Dur("interval", r.interval).Dur("ttl", r.ttl).Msg("reaper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "core.reaper").Msg("reaper stopped")
			return
		case <-ticker.C:
			if n := r.engine.ReapIdle(r.ttl); n > 0 {
				log.Info().Str("module", "core.reaper").Int("evicted", n).Msg("sweep complete")
			}
		}
	}
}
