package sim

import "sort"

// Record is one team's regular-season win/loss counter.
type Record struct {
	Team   string `json:"team"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	played bool
}

// Played reports whether the team has a record yet.
func (r Record) Played() bool {
	return r.played
}

// Standings tracks records in the order teams were registered. That order is
// the prior ordering kept for teams tied on wins.
type Standings struct {
	records []Record
	index   map[string]int
}

// NewStandings starts every team with no record.
func NewStandings(teams []string) *Standings {
	s := &Standings{
		records: make([]Record, len(teams)),
		index:   make(map[string]int, len(teams)),
	}
	for i, name := range teams {
		s.records[i] = Record{Team: name}
		s.index[name] = i
	}
	return s
}

// Update credits a win to winner and a loss to loser.
func (s *Standings) Update(winner, loser string) error {
	wi, ok := s.index[winner]
	if !ok {
		return &InvariantError{Stage: "standings", Teams: []string{winner, loser}, Message: "unknown team " + winner}
	}
	li, ok := s.index[loser]
	if !ok {
		return &InvariantError{Stage: "standings", Teams: []string{winner, loser}, Message: "unknown team " + loser}
	}
	s.records[wi].Wins++
	s.records[wi].played = true
	s.records[li].Losses++
	s.records[li].played = true
	return nil
}

// Get returns the record for team.
func (s *Standings) Get(team string) (Record, bool) {
	i, ok := s.index[team]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Records returns a copy of the records in registration order.
func (s *Standings) Records() []Record {
	return append([]Record(nil), s.records...)
}

// Ranked sorts by wins descending. The sort is stable, so teams with equal
// wins keep their registration order; there is no secondary tie-break.
func (s *Standings) Ranked() []Record {
	ranked := s.Records()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Wins > ranked[j].Wins
	})
	return ranked
}
