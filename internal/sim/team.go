package sim

import "math"

// Player is a rostered player and the scoring distribution used to sample
// weekly outputs.
type Player struct {
	Name      string    `json:"name" yaml:"name"`
	Mean      float64   `json:"mean" yaml:"mean"`
	StdDev    float64   `json:"std_dev" yaml:"std_dev"`
	PointsLog []float64 `json:"points_log,omitempty" yaml:"points,omitempty"`
}

// Team is a fantasy team. Teams are read-only once a run starts.
type Team struct {
	Name   string   `json:"name" yaml:"name"`
	Roster []Player `json:"roster" yaml:"players"`
}

// Validate checks the data the sampler relies on.
func (t Team) Validate() error {
	if t.Name == "" {
		return configErrorf("teams", "team name is empty")
	}
	if len(t.Roster) == 0 {
		return configErrorf("teams", "team %q has no players", t.Name)
	}
	for _, p := range t.Roster {
		if math.IsNaN(p.Mean) || math.IsInf(p.Mean, 0) {
			return configErrorf("teams", "player %q on %q has invalid mean %v", p.Name, t.Name, p.Mean)
		}
		if math.IsNaN(p.StdDev) || math.IsInf(p.StdDev, 0) || p.StdDev < 0 {
			return configErrorf("teams", "player %q on %q has invalid standard deviation %v", p.Name, t.Name, p.StdDev)
		}
	}
	return nil
}
