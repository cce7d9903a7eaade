package sim

import (
	"fmt"
	"math/rand/v2"
)

// Config holds the per-season settings shared by every trial.
type Config struct {
	NumWeeks        int `json:"num_weeks"`
	NumPlayoffTeams int `json:"num_playoff_teams"`
}

// League is a validated, read-only set of teams plus season settings. It is
// safe to share between goroutines.
type League struct {
	teams  []Team
	names  []string
	byName map[string]*Team
	config Config
}

// NewLeague validates teams and config once so trials can run without
// re-checking them.
func NewLeague(teams []Team, config Config) (*League, error) {
	if len(teams) < 2 {
		return nil, configErrorf("teams", "need at least 2 teams, got %d", len(teams))
	}
	switch config.NumPlayoffTeams {
	case 2, 4, 8:
	default:
		return nil, configErrorf("num_playoff_teams", "must be 2, 4 or 8, got %d", config.NumPlayoffTeams)
	}
	if config.NumPlayoffTeams > len(teams) {
		return nil, configErrorf("num_playoff_teams", "%d playoff teams but only %d teams", config.NumPlayoffTeams, len(teams))
	}
	if config.NumWeeks <= 0 {
		return nil, configErrorf("num_weeks", "must be positive, got %d", config.NumWeeks)
	}
	if config.NumWeeks >= 2*len(teams) {
		return nil, configErrorf("num_weeks", "must be less than %d (2 x %d teams), got %d", 2*len(teams), len(teams), config.NumWeeks)
	}

	l := &League{
		teams:  make([]Team, len(teams)),
		names:  make([]string, len(teams)),
		byName: make(map[string]*Team, len(teams)),
		config: config,
	}
	copy(l.teams, teams)
	for i := range l.teams {
		t := &l.teams[i]
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := l.byName[t.Name]; dup {
			return nil, configErrorf("teams", "duplicate team name %q", t.Name)
		}
		l.byName[t.Name] = t
		l.names[i] = t.Name
	}
	return l, nil
}

// Config returns the season settings.
func (l *League) Config() Config {
	return l.config
}

// TeamNames returns team names in registration order.
func (l *League) TeamNames() []string {
	return append([]string(nil), l.names...)
}

// Team looks up a team by name.
func (l *League) Team(name string) (*Team, bool) {
	t, ok := l.byName[name]
	return t, ok
}

// Season is one trial: a schedule, standings and a playoff bracket. A Season
// plays out exactly once.
type Season struct {
	league    *League
	rng       *rand.Rand
	schedule  Schedule
	standings *Standings
	bracket   Bracket
	played    bool
}

// NewSeason generates the schedule for a fresh trial.
func NewSeason(league *League, rng *rand.Rand) (*Season, error) {
	schedule, err := GenerateSchedule(league.names, league.config.NumWeeks, rng)
	if err != nil {
		return nil, err
	}
	return &Season{
		league:    league,
		rng:       rng,
		schedule:  schedule,
		standings: NewStandings(league.names),
	}, nil
}

// Schedule returns the generated schedule.
func (s *Season) Schedule() Schedule {
	return s.schedule
}

// Standings returns the standings; they are complete after Results.
func (s *Season) Standings() *Standings {
	return s.standings
}

// Results plays the regular season and then the playoffs, returning the
// completed bracket.
func (s *Season) Results() (Bracket, error) {
	if s.played {
		return nil, fmt.Errorf("season already played")
	}
	s.played = true

	if err := s.playRegularSeason(); err != nil {
		return nil, err
	}
	if err := s.playPlayoffs(); err != nil {
		return nil, err
	}
	return s.bracket, nil
}

func (s *Season) playRegularSeason() error {
	for w, week := range s.schedule {
		for _, m := range week {
			home, away, err := s.teams(m.Home, m.Away)
			if err != nil {
				err.Stage = "regular_season"
				err.Week = w + 1
				return err
			}
			winner, loser := Resolve(home, away, s.rng)
			if err := s.standings.Update(winner.Name, loser.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Season) playPlayoffs() error {
	ranked := s.standings.Ranked()
	n := s.league.config.NumPlayoffTeams
	if n > len(ranked) {
		n = len(ranked)
	}
	qualifiers := make([]string, n)
	for i := range qualifiers {
		qualifiers[i] = ranked[i].Team
	}
	if len(qualifiers) == 0 {
		return nil
	}

	root, err := RoundNameFor(len(qualifiers))
	if err != nil {
		return &InvariantError{Stage: "playoffs", Teams: qualifiers, Message: err.Error()}
	}
	bracket, err := BuildBracket(qualifiers, root, s.playoffGame)
	s.bracket = bracket
	return err
}

func (s *Season) playoffGame(home, away string) (string, error) {
	a, b, err := s.teams(home, away)
	if err != nil {
		return "", err
	}
	winner, _ := Resolve(a, b, s.rng)
	return winner.Name, nil
}

func (s *Season) teams(home, away string) (*Team, *Team, *InvariantError) {
	a, ok := s.league.byName[home]
	if !ok {
		return nil, nil, &InvariantError{Stage: "playoffs", Teams: []string{home, away}, Message: "unknown team " + home}
	}
	b, ok := s.league.byName[away]
	if !ok {
		return nil, nil, &InvariantError{Stage: "playoffs", Teams: []string{home, away}, Message: "unknown team " + away}
	}
	return a, b, nil
}

// SimulateSeason runs a single trial for callers that need one sample.
func SimulateSeason(teams []Team, config Config, rng *rand.Rand) (Bracket, error) {
	league, err := NewLeague(teams, config)
	if err != nil {
		return nil, err
	}
	season, err := NewSeason(league, rng)
	if err != nil {
		return nil, err
	}
	return season.Results()
}
