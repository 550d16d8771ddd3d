// Package config loads the engine's threshold configuration from an
// optional YAML file with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// TeamConfig holds the team-detection thresholds.
type TeamConfig struct {
	// MinEdgeWeight is the minimum co-occurrence count for an edge to
	// survive into community clustering.
	MinEdgeWeight int `yaml:"min_edge_weight" validate:"gte=1"`
	// MinPairWeight is the minimum edge weight for a frequent-pair report.
	MinPairWeight int `yaml:"min_pair_weight" validate:"gte=1"`
	// MinRosterSize / MaxRosterSize bound community cluster sizes.
	MinRosterSize int `yaml:"min_roster_size" validate:"gte=2"`
	MaxRosterSize int `yaml:"max_roster_size" validate:"gtefield=MinRosterSize"`
	// MinTeamMatches is the minimum exact-roster recurrence for a party
	// team to be reported.
	MinTeamMatches int `yaml:"min_team_matches" validate:"gte=1"`
	// MaxTeams truncates party/community listings for delivery.
	MaxTeams int `yaml:"max_teams" validate:"gte=1"`
}

// Config is the full engine configuration.
type Config struct {
	// WindowDays is the size of the active window ending now.
	WindowDays int `yaml:"window_days" validate:"gte=1"`
	// MinPlayerGames gates players out of the global player leaderboard.
	MinPlayerGames int `yaml:"min_player_games" validate:"gte=1"`
	// LeaderboardSize truncates the player leaderboard for delivery.
	LeaderboardSize int `yaml:"leaderboard_size" validate:"gte=1"`
	// TopContributors is how many players are attached per nation.
	TopContributors int `yaml:"top_contributors" validate:"gte=1"`
	// AllowedFactions lists non-ISO codes accepted as nations (e.g. in-game
	// factions). Two-letter codes are always accepted.
	AllowedFactions []string `yaml:"allowed_factions"`

	Teams TeamConfig `yaml:"teams"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		WindowDays:      7,
		MinPlayerGames:  1,
		LeaderboardSize: 50,
		TopContributors: 3,
		Teams: TeamConfig{
			MinEdgeWeight:  2,
			MinPairWeight:  5,
			MinRosterSize:  2,
			MaxRosterSize:  12,
			MinTeamMatches: 2,
			MaxTeams:       100,
		},
	}
}

// Load reads the YAML file at path (empty path keeps defaults), applies
// environment overrides and validates the result. A .env file next to the
// working directory is honoured when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load() // optional; env vars win either way

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays BARRANK_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	intEnv("BARRANK_WINDOW_DAYS", &cfg.WindowDays)
	intEnv("BARRANK_MIN_PLAYER_GAMES", &cfg.MinPlayerGames)
	intEnv("BARRANK_MIN_EDGE_WEIGHT", &cfg.Teams.MinEdgeWeight)
	intEnv("BARRANK_MIN_PAIR_WEIGHT", &cfg.Teams.MinPairWeight)
}

func intEnv(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// FactionAllowed reports whether code passes the nation filter: a 2-letter
// code or an explicit allow-list entry. "??" and empty never pass.
func (c Config) FactionAllowed(code string) bool {
	if code == "" || code == "??" {
		return false
	}
	if len(code) == 2 {
		return true
	}
	for _, f := range c.AllowedFactions {
		if f == code {
			return true
		}
	}
	return false
}
