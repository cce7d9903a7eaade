package roster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// File is the YAML roster layout:
//
//	teams:
//	  - name: Gridiron Gang
//	    players:
//	      - Josh Allen
//	      - name: Travis Kelce
//	        mean: 12.4
//	        std_dev: 5.1
//	      - name: Justin Tucker
//	        points: [9, 11, 6, 14]
type File struct {
	Teams []TeamEntry `yaml:"teams"`
}

// TeamEntry is one team in a roster file
type TeamEntry struct {
	Name    string        `yaml:"name"`
	Players []PlayerEntry `yaml:"players"`
}

// PlayerEntry is a rostered player. Mean and StdDev are used as given;
// otherwise Points is summarized; otherwise the game log is fetched.
type PlayerEntry struct {
	Name   string    `yaml:"name"`
	Mean   *float64  `yaml:"mean,omitempty"`
	StdDev *float64  `yaml:"std_dev,omitempty"`
	Points []float64 `yaml:"points,omitempty"`
}

// UnmarshalYAML accepts either a bare player name or a mapping.
func (p *PlayerEntry) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		*p = PlayerEntry{Name: name}
		return nil
	}

	type plain PlayerEntry
	var entry plain
	if err := unmarshal(&entry); err != nil {
		return err
	}
	*p = PlayerEntry(entry)
	return nil
}

// ReadFile parses a YAML roster file
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file %s: %w", path, err)
	}

	var file File
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse roster file %s: %w", path, err)
	}
	if len(file.Teams) == 0 {
		return nil, fmt.Errorf("roster file %s has no teams", path)
	}
	for i, team := range file.Teams {
		if team.Name == "" {
			return nil, fmt.Errorf("roster file %s: team %d has no name", path, i+1)
		}
		for j, p := range team.Players {
			if p.Name == "" {
				return nil, fmt.Errorf("roster file %s: team %q player %d has no name", path, team.Name, j+1)
			}
			if (p.Mean == nil) != (p.StdDev == nil) {
				return nil, fmt.Errorf("roster file %s: player %q needs both mean and std_dev", path, p.Name)
			}
		}
	}
	return &file, nil
}
