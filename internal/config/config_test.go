package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "missing")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3001 {
		t.Fatalf("Port = %d", cfg.Port)
	}
	if cfg.MaxConnsPerAddr != 10 {
		t.Fatalf("MaxConnsPerAddr = %d", cfg.MaxConnsPerAddr)
	}
	if cfg.RoomTTL != 30*time.Minute || cfg.ReapInterval != 5*time.Minute {
		t.Fatalf("TTL = %v, reap = %v", cfg.RoomTTL, cfg.ReapInterval)
	}
	if len(cfg.ICEServers) == 0 || len(cfg.ICEServers[0].URLs) == 0 {
		t.Fatalf("ICEServers = %+v", cfg.ICEServers)
	}
}

func TestLoadPortFromEnv(t *testing.T) {
	t.Setenv("CONFIG_ENV", "missing")
	t.Setenv("PORT", "4444")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 4444 {
		t.Fatalf("Port = %d, want 4444", cfg.Port)
	}
}
