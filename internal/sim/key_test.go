package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_RoundTripSimulatedBrackets(t *testing.T) {
	rng := newTestRNG(10)
	for _, playoff := range []int{2, 4, 8} {
		for i := 0; i < 50; i++ {
			bracket, err := SimulateSeason(noisyTeams(10), Config{NumWeeks: 13, NumPlayoffTeams: playoff}, rng)
			require.NoError(t, err)

			key, err := Encode(bracket)
			require.NoError(t, err)
			decoded := key.Decode()
			assert.True(t, decoded.Equal(bracket), "decoded %v, want %v", decoded, bracket)

			again, err := Encode(decoded)
			require.NoError(t, err)
			assert.Equal(t, key, again)
		}
	}
}

func TestKey_DistinguishesBrackets(t *testing.T) {
	a := Bracket{
		{Name: RoundFinal, Matchups: []Matchup{{"A", "B"}}},
		{Name: RoundChampion, Teams: []string{"A"}},
	}
	b := Bracket{
		{Name: RoundFinal, Matchups: []Matchup{{"A", "B"}}},
		{Name: RoundChampion, Teams: []string{"B"}},
	}
	swapped := Bracket{
		{Name: RoundFinal, Matchups: []Matchup{{"B", "A"}}},
		{Name: RoundChampion, Teams: []string{"A"}},
	}

	ka, err := Encode(a)
	require.NoError(t, err)
	kb, err := Encode(b)
	require.NoError(t, err)
	ks, err := Encode(swapped)
	require.NoError(t, err)
	ka2, err := Encode(a)
	require.NoError(t, err)

	assert.NotEqual(t, ka, kb)
	assert.NotEqual(t, ka, ks)
	assert.Equal(t, ka, ka2)

	counts := map[Key]int{ka: 1}
	counts[ka2]++
	assert.Equal(t, 2, counts[ka])
}

func TestKey_String(t *testing.T) {
	key, err := Encode(Bracket{
		{Name: RoundFinal, Matchups: []Matchup{{"A", "B"}}},
		{Name: RoundChampion, Teams: []string{"A"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "final: [(A, B)] | champion: [A]", key.String())
}

func TestKey_EmptyBracket(t *testing.T) {
	key, err := Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, key.Decode())
	assert.Equal(t, Key{}, key)
}

func TestEncode_RejectsOversizedBrackets(t *testing.T) {
	big := make(Bracket, 5)
	for i := range big {
		big[i] = Round{Name: RoundFirst}
	}
	_, err := Encode(big)
	assert.Error(t, err)

	_, err = Encode(Bracket{{Name: RoundFirst, Matchups: make([]Matchup, 8)}})
	assert.Error(t, err)

	_, err = Encode(Bracket{{Name: RoundChampion, Teams: []string{"A", "B"}}})
	assert.Error(t, err)
}
