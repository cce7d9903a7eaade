package sim

import (
	"fmt"
	"math/rand/v2"
)

func newTestRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// fixedTeam builds a team whose players always score mean points.
func fixedTeam(name string, players int, mean float64) Team {
	roster := make([]Player, players)
	for i := range roster {
		roster[i] = Player{Name: fmt.Sprintf("%s-P%d", name, i+1), Mean: mean}
	}
	return Team{Name: name, Roster: roster}
}

func teamNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("T%d", i+1)
	}
	return names
}

func tiedTeams(n int) []Team {
	teams := make([]Team, n)
	for i, name := range teamNames(n) {
		teams[i] = fixedTeam(name, 3, 10)
	}
	return teams
}

func noisyTeams(n int) []Team {
	teams := make([]Team, n)
	for i, name := range teamNames(n) {
		teams[i] = Team{Name: name, Roster: []Player{
			{Name: name + "-QB", Mean: 18 + float64(i), StdDev: 6},
			{Name: name + "-RB", Mean: 12, StdDev: 5},
			{Name: name + "-WR", Mean: 11, StdDev: 4.5},
		}}
	}
	return teams
}
