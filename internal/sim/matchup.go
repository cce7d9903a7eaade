package sim

import "math/rand/v2"

// SamplePerformance draws one weekly score for p from Normal(mean, std_dev).
func SamplePerformance(p Player, rng *rand.Rand) float64 {
	if p.StdDev == 0 {
		return p.Mean
	}
	return rng.NormFloat64()*p.StdDev + p.Mean
}

// TeamScore sums one independent draw per rostered player.
func TeamScore(t *Team, rng *rand.Rand) float64 {
	total := 0.0
	for _, p := range t.Roster {
		total += SamplePerformance(p, rng)
	}
	return total
}

// Resolve plays a and b against each other. The higher score wins; an exact
// tie is decided by a fair coin flip.
func Resolve(a, b *Team, rng *rand.Rand) (winner, loser *Team) {
	return decide(a, TeamScore(a, rng), b, TeamScore(b, rng), rng)
}

func decide(a *Team, aScore float64, b *Team, bScore float64, rng *rand.Rand) (*Team, *Team) {
	switch {
	case aScore > bScore:
		return a, b
	case bScore > aScore:
		return b, a
	case rng.IntN(2) == 1:
		return a, b
	default:
		return b, a
	}
}
