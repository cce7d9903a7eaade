package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Report orders for the brackets printed after a run.
const (
	OrderLeastFrequent = "least_frequent"
	OrderMostFrequent  = "most_frequent"
)

// Settings represents the configuration for a simulation run
type Settings struct {
	NumSimulations  int    `json:"num_simulations" env:"PLAYOFF_SIM_NUM_SIMULATIONS"`
	WeeksPerSeason  int    `json:"weeks_per_season" env:"PLAYOFF_SIM_WEEKS_PER_SEASON"`
	NumPlayoffTeams int    `json:"num_playoff_teams" env:"PLAYOFF_SIM_NUM_PLAYOFF_TEAMS"`
	RosterPath      string `json:"roster_path" env:"PLAYOFF_SIM_ROSTER_PATH"`
	SleeperLeagueID string `json:"sleeper_league_id" env:"PLAYOFF_SIM_SLEEPER_LEAGUE_ID"`
	Season          string `json:"season" env:"PLAYOFF_SIM_SEASON"`
	Workers         int    `json:"workers" env:"PLAYOFF_SIM_WORKERS"`
	Seed            uint64 `json:"seed" env:"PLAYOFF_SIM_SEED"`
	ReportCount     int    `json:"report_count" env:"PLAYOFF_SIM_REPORT_COUNT"`
	ReportOrder     string `json:"report_order" env:"PLAYOFF_SIM_REPORT_ORDER"`
	CSVPath         string `json:"csv_path" env:"PLAYOFF_SIM_CSV_PATH"`
	ExceptionsPath  string `json:"exceptions_path" env:"PLAYOFF_SIM_EXCEPTIONS_PATH"`
	LogLevel        string `json:"log_level" env:"PLAYOFF_SIM_LOG_LEVEL"`
	Timeout         string `json:"timeout" env:"PLAYOFF_SIM_TIMEOUT"`
}

// DefaultSettings returns the settings used when no file is found
func DefaultSettings() Settings {
	return Settings{
		NumSimulations:  10000,
		WeeksPerSeason:  14,
		NumPlayoffTeams: 4,
		RosterPath:      "rosters.yaml",
		Season:          "2023",
		ReportCount:     3,
		ReportOrder:     OrderLeastFrequent,
		CSVPath:         "top_brackets.csv",
		ExceptionsPath:  "player_code_exceptions.json",
		LogLevel:        "info",
	}
}

var settingsPaths = []string{
	"settings.json",
	"configs/settings.json",
	"../configs/settings.json",
}

// LoadSettings loads run settings from the first settings file found, then
// applies environment overrides
func LoadSettings() (*Settings, error) {
	return loadSettings(settingsPaths)
}

// LoadSettingsFile loads run settings from an explicit path
func LoadSettingsFile(path string) (*Settings, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", path, err)
	}
	return loadSettings([]string{path})
}

func loadSettings(paths []string) (*Settings, error) {
	settings := DefaultSettings()

	var configData []byte
	var foundPath string

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			var readErr error
			configData, readErr = os.ReadFile(path)
			if readErr == nil {
				foundPath = path
				break
			}
		}
	}

	if foundPath != "" {
		// file values override defaults; absent keys keep them
		if err := json.Unmarshal(configData, &settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings from %s: %w", foundPath, err)
		}
	}

	if err := env.Parse(&settings); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return &settings, nil
}

// Validate checks the run-level values that do not depend on the rosters
func (s *Settings) Validate() error {
	if s.NumSimulations <= 0 {
		return fmt.Errorf("num_simulations must be positive, got %d", s.NumSimulations)
	}
	if s.WeeksPerSeason <= 0 {
		return fmt.Errorf("weeks_per_season must be positive, got %d", s.WeeksPerSeason)
	}
	switch s.ReportOrder {
	case OrderLeastFrequent, OrderMostFrequent:
	default:
		return fmt.Errorf("report_order must be %q or %q, got %q", OrderLeastFrequent, OrderMostFrequent, s.ReportOrder)
	}
	if s.RosterPath == "" && s.SleeperLeagueID == "" {
		return fmt.Errorf("either roster_path or sleeper_league_id is required")
	}
	if _, err := s.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout; an empty value means no timeout
func (s *Settings) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s.Timeout, err)
	}
	return d, nil
}

// LoadPlayerCodeExceptions reads the player name to FantasyPros suffix table.
// A missing file yields an empty table.
func LoadPlayerCodeExceptions(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read player code exceptions from %s: %w", path, err)
	}

	exceptions := make(map[string]string)
	if err := json.Unmarshal(data, &exceptions); err != nil {
		return nil, fmt.Errorf("failed to parse player code exceptions from %s: %w", path, err)
	}
	return exceptions, nil
}
