package sim

import (
	"fmt"
	"strings"
)

const (
	maxKeyRounds   = 4
	maxKeyMatchups = 4
)

// Key is a comparable, order-preserving encoding of a completed bracket,
// usable directly as a map key when tallying trials.
type Key struct {
	n      uint8
	rounds [maxKeyRounds]keyRound
}

type keyRound struct {
	name RoundName
	n    uint8
	// champion rounds store the winner in pairs[0][0]
	pairs [maxKeyMatchups][2]string
}

// Encode converts a bracket into its Key. Brackets larger than an
// eight-team field cannot be encoded.
func Encode(b Bracket) (Key, error) {
	var k Key
	if len(b) > maxKeyRounds {
		return Key{}, fmt.Errorf("bracket has %d rounds, at most %d supported", len(b), maxKeyRounds)
	}
	k.n = uint8(len(b))
	for i, r := range b {
		kr := keyRound{name: r.Name}
		if r.Name == RoundChampion {
			if len(r.Teams) != 1 {
				return Key{}, fmt.Errorf("champion round has %d teams", len(r.Teams))
			}
			kr.n = 1
			kr.pairs[0][0] = r.Teams[0]
		} else {
			if len(r.Matchups) > maxKeyMatchups {
				return Key{}, fmt.Errorf("round %s has %d matchups, at most %d supported", r.Name, len(r.Matchups), maxKeyMatchups)
			}
			kr.n = uint8(len(r.Matchups))
			for j, m := range r.Matchups {
				kr.pairs[j] = [2]string{m.Home, m.Away}
			}
		}
		k.rounds[i] = kr
	}
	return k, nil
}

// Decode rebuilds the bracket a Key was encoded from.
func (k Key) Decode() Bracket {
	if k.n == 0 {
		return nil
	}
	b := make(Bracket, k.n)
	for i := range b {
		kr := k.rounds[i]
		if kr.name == RoundChampion {
			b[i] = Round{Name: kr.name, Teams: []string{kr.pairs[0][0]}}
			continue
		}
		matchups := make([]Matchup, kr.n)
		for j := range matchups {
			matchups[j] = Matchup{Home: kr.pairs[j][0], Away: kr.pairs[j][1]}
		}
		b[i] = Round{Name: kr.name, Matchups: matchups}
	}
	return b
}

// String renders the key one round per segment, e.g.
// "final: [(A, B)] | champion: [A]".
func (k Key) String() string {
	b := k.Decode()
	parts := make([]string, len(b))
	for i, r := range b {
		parts[i] = r.String()
	}
	return strings.Join(parts, " | ")
}
