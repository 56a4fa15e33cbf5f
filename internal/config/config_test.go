package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/me/servq/pkg/model"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestDefault_Population(t *testing.T) {
	cfg := Default()

	if len(cfg.Tiers) != 3 {
		t.Fatalf("tiers = %d, want 3", len(cfg.Tiers))
	}

	total := 0
	for _, tc := range cfg.Tiers {
		total += (tc.LastZone - tc.FirstZone + 1) * tc.RoomsPerZone
	}
	if total != 300 {
		t.Errorf("total rooms = %d, want 300", total)
	}

	table := cfg.TierTable()
	for _, info := range table {
		switch info.Tier {
		case model.TierA:
			if info.Rank != 1 || info.Multiplier != 2.5 || info.BaseCharge != 25 {
				t.Errorf("Tier-A = %+v", info)
			}
		case model.TierB:
			if info.Rank != 2 || info.Multiplier != 1.5 || info.BaseCharge != 15 {
				t.Errorf("Tier-B = %+v", info)
			}
		case model.TierC:
			if info.Rank != 3 || info.Multiplier != 1.0 || info.BaseCharge != 10 {
				t.Errorf("Tier-C = %+v", info)
			}
		}
	}

	pools := cfg.WorkerPools()
	for _, tier := range model.Tiers() {
		if len(pools[tier]) == 0 {
			t.Errorf("tier %s has no default workers", tier)
		}
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":8080" || cfg.Policy != string(model.PolicyPriority) {
		t.Errorf("got listen=%s policy=%s, want defaults", cfg.Listen, cfg.Policy)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servq.yaml")
	data := `
listen: ":9090"
log_level: debug
policy: ShortestJobFirst
time_quantum: 20
poll_interval: 250ms
minute_interval: 50ms
archive: ":memory:"
seed:
  - room: "101"
    type: Housekeeping
    minutes: 30
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":9090" {
		t.Errorf("listen = %s, want :9090", cfg.Listen)
	}
	if cfg.Policy != string(model.PolicyShortestJobFirst) {
		t.Errorf("policy = %s, want ShortestJobFirst", cfg.Policy)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("poll_interval = %s, want 250ms", cfg.PollInterval)
	}
	if cfg.MinuteInterval != 50*time.Millisecond {
		t.Errorf("minute_interval = %s, want 50ms", cfg.MinuteInterval)
	}
	if len(cfg.Seed) != 1 || cfg.Seed[0].Room != "101" {
		t.Errorf("seed = %v, want one task for room 101", cfg.Seed)
	}

	// Unset keys keep their defaults.
	if len(cfg.Tiers) != 3 {
		t.Errorf("tiers = %d, want default 3", len(cfg.Tiers))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load of missing file should fail")
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown policy", func(c *Config) { c.Policy = "Lottery" }},
		{"zero quantum", func(c *Config) { c.TimeQuantum = 0 }},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }},
		{"zero minute interval", func(c *Config) { c.MinuteInterval = 0 }},
		{"no tiers", func(c *Config) { c.Tiers = nil }},
		{"unknown tier", func(c *Config) { c.Tiers[0].Tier = "Tier-X" }},
		{"bad rank", func(c *Config) { c.Tiers[0].Rank = 0 }},
		{"bad multiplier", func(c *Config) { c.Tiers[0].Multiplier = -1 }},
		{"bad base charge", func(c *Config) { c.Tiers[0].BaseCharge = 0 }},
		{"bad preset tier", func(c *Config) { c.Intake.Presets[0].Tier = "Tier-X" }},
		{"bad preset minutes", func(c *Config) { c.Intake.Presets[0].Minutes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}
