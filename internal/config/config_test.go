package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.HistoryLimit != 100 {
		t.Errorf("HistoryLimit = %d, want 100", cfg.HistoryLimit)
	}
	if cfg.SweepPeriod != 30*time.Second {
		t.Errorf("SweepPeriod = %v, want 30s", cfg.SweepPeriod)
	}
	if cfg.ReadLimit != 32768 {
		t.Errorf("ReadLimit = %d, want 32768", cfg.ReadLimit)
	}
	if name, ok := cfg.Rooms["general"]; !ok || name != "General" {
		t.Errorf("Rooms[general] = %q, %v; want General", name, ok)
	}
}
