// Package config loads server configuration from YAML over built-in
// defaults. The defaults reproduce the original population: ten zones of 30
// rooms split across three tiers, with the original multipliers, base
// charges, amenity sets, and worker rosters.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/me/servq/internal/catalog"
	"github.com/me/servq/pkg/model"
)

// Config is the full server configuration surface.
type Config struct {
	Listen    string `yaml:"listen"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Policy      string `yaml:"policy"`
	TimeQuantum int    `yaml:"time_quantum"`

	PollInterval   time.Duration `yaml:"poll_interval"`
	MinuteInterval time.Duration `yaml:"minute_interval"`

	// ArchiveDSN is the SQLite DSN for the completion ledger.
	// ":memory:" keeps the ledger in-process only.
	ArchiveDSN string `yaml:"archive"`

	Tiers  []TierConfig `yaml:"tiers"`
	Intake IntakeConfig `yaml:"intake"`
	Seed   []SeedTask   `yaml:"seed"`
}

// TierConfig describes one tier: its metadata, the zones it occupies, and
// its worker roster.
type TierConfig struct {
	Tier         string   `yaml:"tier"`
	DisplayName  string   `yaml:"display_name"`
	Rank         int      `yaml:"rank"`
	Multiplier   float64  `yaml:"multiplier"`
	BaseCharge   float64  `yaml:"base_charge"`
	Amenities    []string `yaml:"amenities"`
	FirstZone    int      `yaml:"first_zone"`
	LastZone     int      `yaml:"last_zone"`
	RoomsPerZone int      `yaml:"rooms_per_zone"`
	Workers      []string `yaml:"workers"`
}

// IntakeConfig controls the scheduled auto-intake generator.
type IntakeConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Schedule string         `yaml:"schedule"` // standard 5-field cron spec
	Presets  []PresetConfig `yaml:"presets"`
}

// PresetConfig is one quick-add service preset.
type PresetConfig struct {
	Tier    string `yaml:"tier"`
	Type    string `yaml:"type"`
	Minutes int    `yaml:"minutes"`
}

// SeedTask is one task admitted at startup for demonstration.
type SeedTask struct {
	Room        string `yaml:"room"`
	Type        string `yaml:"type"`
	Minutes     int    `yaml:"minutes"`
	Description string `yaml:"description"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:         ":8080",
		LogLevel:       "info",
		LogFormat:      "text",
		Policy:         string(model.PolicyPriority),
		TimeQuantum:    15,
		PollInterval:   500 * time.Millisecond,
		MinuteInterval: 100 * time.Millisecond,
		ArchiveDSN:     ":memory:",
		Tiers: []TierConfig{
			{
				Tier:        string(model.TierA),
				DisplayName: "VIP",
				Rank:        1,
				Multiplier:  2.5,
				BaseCharge:  25.0,
				Amenities: []string{
					"Smart TV", "Ultra-Fast Wi-Fi", "Premium Climate Control",
					"Luxury Bathroom", "Mini Bar", "Espresso Machine", "24/7 Room Service",
					"Concierge Service", "Premium Linens", "Balcony", "Butler Service",
				},
				FirstZone:    7,
				LastZone:     10,
				RoomsPerZone: 30,
				Workers:      []string{"Alice (VIP Specialist)", "Robert (Butler)", "Elena (Concierge)"},
			},
			{
				Tier:        string(model.TierB),
				DisplayName: "Mid-Range",
				Rank:        2,
				Multiplier:  1.5,
				BaseCharge:  15.0,
				Amenities: []string{
					"Premium TV", "High-Speed Wi-Fi", "Climate Control",
					"Premium Bathroom", "Mini Fridge", "Coffee Maker", "Room Service Menu",
				},
				FirstZone:    4,
				LastZone:     6,
				RoomsPerZone: 30,
				Workers:      []string{"Bob (Senior Staff)", "Diana (Room Service)", "Carlos (Maintenance)"},
			},
			{
				Tier:        string(model.TierC),
				DisplayName: "Economy",
				Rank:        3,
				Multiplier:  1.0,
				BaseCharge:  10.0,
				Amenities: []string{
					"Basic TV", "Wi-Fi", "Air Conditioning", "Private Bathroom",
				},
				FirstZone:    1,
				LastZone:     3,
				RoomsPerZone: 30,
				Workers:      []string{"Charlie (Staff)", "Eve (Housekeeper)", "Frank (Assistant)"},
			},
		},
		Intake: IntakeConfig{
			Enabled:  false,
			Schedule: "* * * * *",
			Presets: []PresetConfig{
				{Tier: string(model.TierC), Type: "Housekeeping", Minutes: 45},
				{Tier: string(model.TierC), Type: "Room Service", Minutes: 20},
				{Tier: string(model.TierB), Type: "Premium Housekeeping", Minutes: 35},
				{Tier: string(model.TierB), Type: "Premium Room Service", Minutes: 15},
				{Tier: string(model.TierA), Type: "Butler Service", Minutes: 10},
				{Tier: string(model.TierA), Type: "Concierge Service", Minutes: 12},
			},
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency. Overlapping
// room numbers are caught later, at catalog initialization.
func (c *Config) Validate() error {
	if _, err := model.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if c.TimeQuantum <= 0 {
		return fmt.Errorf("time_quantum must be greater than 0")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be greater than 0")
	}
	if c.MinuteInterval <= 0 {
		return fmt.Errorf("minute_interval must be greater than 0")
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("at least one tier must be defined")
	}
	for i, tc := range c.Tiers {
		if !model.Tier(tc.Tier).Valid() {
			return fmt.Errorf("tier %d: unknown tier %q", i, tc.Tier)
		}
		if tc.Rank <= 0 {
			return fmt.Errorf("tier %s: rank must be greater than 0", tc.Tier)
		}
		if tc.Multiplier <= 0 {
			return fmt.Errorf("tier %s: multiplier must be greater than 0", tc.Tier)
		}
		if tc.BaseCharge <= 0 {
			return fmt.Errorf("tier %s: base_charge must be greater than 0", tc.Tier)
		}
	}
	for i, p := range c.Intake.Presets {
		if !model.Tier(p.Tier).Valid() {
			return fmt.Errorf("intake preset %d: unknown tier %q", i, p.Tier)
		}
		if p.Minutes <= 0 {
			return fmt.Errorf("intake preset %d: minutes must be greater than 0", i)
		}
	}
	return nil
}

// TierTable converts the tier configs to catalog metadata entries.
func (c *Config) TierTable() []model.TierInfo {
	out := make([]model.TierInfo, 0, len(c.Tiers))
	for _, tc := range c.Tiers {
		out = append(out, model.TierInfo{
			Tier:        model.Tier(tc.Tier),
			DisplayName: tc.DisplayName,
			Rank:        tc.Rank,
			Multiplier:  tc.Multiplier,
			BaseCharge:  tc.BaseCharge,
			Amenities:   tc.Amenities,
		})
	}
	return out
}

// ZoneSpecs converts the tier configs to catalog zone specs.
func (c *Config) ZoneSpecs() []catalog.ZoneSpec {
	out := make([]catalog.ZoneSpec, 0, len(c.Tiers))
	for _, tc := range c.Tiers {
		out = append(out, catalog.ZoneSpec{
			Tier:         model.Tier(tc.Tier),
			FirstZone:    tc.FirstZone,
			LastZone:     tc.LastZone,
			RoomsPerZone: tc.RoomsPerZone,
		})
	}
	return out
}

// WorkerPools converts the tier configs to the dispatch loop's pool table.
func (c *Config) WorkerPools() map[model.Tier][]string {
	out := make(map[model.Tier][]string, len(c.Tiers))
	for _, tc := range c.Tiers {
		out[model.Tier(tc.Tier)] = append([]string(nil), tc.Workers...)
	}
	return out
}
