package sim

import (
	"fmt"
	"strings"
)

// RoundName labels a playoff round by how many teams enter it.
type RoundName string

const (
	RoundFirst    RoundName = "first_round"
	RoundSemi     RoundName = "semi_final"
	RoundFinal    RoundName = "final"
	RoundChampion RoundName = "champion"
)

// RoundNameFor returns the name of a round entered by n teams.
func RoundNameFor(n int) (RoundName, error) {
	switch n {
	case 8:
		return RoundFirst, nil
	case 4:
		return RoundSemi, nil
	case 2:
		return RoundFinal, nil
	case 1:
		return RoundChampion, nil
	}
	return "", fmt.Errorf("no round name for %d teams", n)
}

// Round is one bracket entry. Playoff rounds carry Matchups with the higher
// seed as Home; the terminal champion round carries the single winner in Teams.
type Round struct {
	Name     RoundName `json:"name"`
	Matchups []Matchup `json:"matchups,omitempty"`
	Teams    []string  `json:"teams,omitempty"`
}

// Bracket is the append-only list of playoff rounds for one trial.
type Bracket []Round

// Champion returns the winner, or false when no bracket was produced.
func (b Bracket) Champion() (string, bool) {
	if len(b) == 0 {
		return "", false
	}
	last := b[len(b)-1]
	if last.Name != RoundChampion || len(last.Teams) != 1 {
		return "", false
	}
	return last.Teams[0], true
}

// Equal reports structural equality.
func (b Bracket) Equal(other Bracket) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i].Name != other[i].Name || len(b[i].Matchups) != len(other[i].Matchups) || len(b[i].Teams) != len(other[i].Teams) {
			return false
		}
		for j := range b[i].Matchups {
			if b[i].Matchups[j] != other[i].Matchups[j] {
				return false
			}
		}
		for j := range b[i].Teams {
			if b[i].Teams[j] != other[i].Teams[j] {
				return false
			}
		}
	}
	return true
}

func (r Round) String() string {
	if r.Name == RoundChampion {
		return fmt.Sprintf("%s: [%s]", r.Name, strings.Join(r.Teams, ", "))
	}
	pairs := make([]string, len(r.Matchups))
	for i, m := range r.Matchups {
		pairs[i] = fmt.Sprintf("(%s, %s)", m.Home, m.Away)
	}
	return fmt.Sprintf("%s: [%s]", r.Name, strings.Join(pairs, ", "))
}

// PlayFunc resolves one playoff game between two team names and returns the
// winner.
type PlayFunc func(home, away string) (string, error)

// BuildBracket seeds qualifiers (best first) into single-elimination rounds and
// plays them out until one champion remains. The root round is labelled
// rootName; later rounds are named by their entrant count. An empty qualifier
// list yields an empty bracket and no champion.
func BuildBracket(qualifiers []string, rootName RoundName, play PlayFunc) (Bracket, error) {
	if len(qualifiers) == 0 {
		return nil, nil
	}
	var bracket Bracket
	if err := advance(&bracket, append([]string(nil), qualifiers...), rootName, play); err != nil {
		return bracket, err
	}
	return bracket, nil
}

func advance(bracket *Bracket, teams []string, name RoundName, play PlayFunc) error {
	if len(teams) == 1 {
		*bracket = append(*bracket, Round{Name: RoundChampion, Teams: teams})
		return nil
	}
	if len(teams)%2 != 0 {
		return &InvariantError{
			Stage:   "playoffs",
			Round:   string(name),
			Teams:   teams,
			Message: fmt.Sprintf("odd number of teams (%d) in playoff round", len(teams)),
		}
	}

	// seed i meets seed k-1-i
	matchups := make([]Matchup, len(teams)/2)
	for i := range matchups {
		matchups[i] = Matchup{Home: teams[i], Away: teams[len(teams)-1-i]}
	}
	*bracket = append(*bracket, Round{Name: name, Matchups: matchups})

	winners := make([]string, 0, len(matchups))
	for _, m := range matchups {
		w, err := play(m.Home, m.Away)
		if err != nil {
			return fmt.Errorf("%s %s vs %s: %w", name, m.Home, m.Away, err)
		}
		winners = append(winners, w)
	}

	next, err := RoundNameFor(len(winners))
	if err != nil {
		return &InvariantError{Stage: "playoffs", Round: string(name), Teams: winners, Message: err.Error()}
	}
	return advance(bracket, winners, next, play)
}
