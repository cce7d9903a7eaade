package sim

import (
	"fmt"
	"math/rand/v2"
)

// Matchup is an unordered pairing of two team names.
type Matchup struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// Involves reports whether team plays in m.
func (m Matchup) Involves(team string) bool {
	return m.Home == team || m.Away == team
}

// Week is one round of matchups; every team appears at most once.
type Week []Matchup

// Schedule is the ordered list of regular-season weeks.
type Schedule []Week

// RoundRobin builds the base schedule with the circle method: the first team
// stays fixed while the others rotate one slot per round, so every pair of
// teams meets exactly once across len(teams)-1 weeks.
func RoundRobin(teams []string) (Schedule, error) {
	n := len(teams)
	if n%2 != 0 {
		return nil, &InvariantError{
			Stage:   "schedule",
			Teams:   append([]string(nil), teams...),
			Message: fmt.Sprintf("round robin needs an even number of teams, got %d", n),
		}
	}

	rotation := append([]string(nil), teams...)
	schedule := make(Schedule, 0, n-1)
	for round := 0; round < n-1; round++ {
		week := make(Week, 0, n/2)
		for i := 0; i < n/2; i++ {
			week = append(week, Matchup{Home: rotation[i], Away: rotation[n-1-i]})
		}
		schedule = append(schedule, week)

		// move the last team into slot 1
		last := rotation[n-1]
		copy(rotation[2:], rotation[1:n-1])
		rotation[1] = last
	}
	return schedule, nil
}

// GenerateSchedule extends the base round robin by repeating its first
// numWeeks mod (n-1) rounds, then shuffles the order of the weeks. The result
// has (n-1) + numWeeks mod (n-1) weeks, which is not necessarily numWeeks.
func GenerateSchedule(teams []string, numWeeks int, rng *rand.Rand) (Schedule, error) {
	base, err := RoundRobin(teams)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return nil, &InvariantError{Stage: "schedule", Teams: teams, Message: "base schedule is empty"}
	}

	remaining := numWeeks % len(base)
	schedule := make(Schedule, 0, len(base)+remaining)
	schedule = append(schedule, base...)
	for _, week := range base[:remaining] {
		schedule = append(schedule, append(Week(nil), week...))
	}

	rng.Shuffle(len(schedule), func(i, j int) {
		schedule[i], schedule[j] = schedule[j], schedule[i]
	})
	return schedule, nil
}
