package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpsarena/engine/internal/rps"
)

func namedBots(names ...string) []*rps.Bot {
	bots := make([]*rps.Bot, len(names))
	for i, n := range names {
		bots[i] = &rps.Bot{DisplayName: n}
	}
	return bots
}

func countByes(matches []*rps.Match) int {
	n := 0
	for _, m := range matches {
		if m.State == rps.Bye {
			n++
		}
	}
	return n
}

func TestFiveBotBracketShape(t *testing.T) {
	bots := namedBots("a", "b", "c", "d", "e")
	tour := Build(bots)

	// N=5, P=8, B=3: one first-round pairing, three byes, non-bye total N-1=4.
	assert.Equal(t, 3, countByes(tour.StartingMatches))
	nonBye := 0
	for _, m := range tour.StartingMatches {
		if m.State != rps.Bye {
			nonBye++
		}
	}
	assert.Equal(t, len(bots)-1, nonBye)
}

func TestFinalMatchIsLastAndHasNoNextMatch(t *testing.T) {
	bots := namedBots("a", "b", "c", "d", "e")
	tour := Build(bots)

	final := tour.StartingMatches[len(tour.StartingMatches)-1]
	assert.Empty(t, final.NextMatchID)
	for _, m := range tour.StartingMatches[:len(tour.StartingMatches)-1] {
		assert.NotEmpty(t, m.NextMatchID, "match %s should point downstream", m.ID)
		require.NotNil(t, tour.MatchByID(m.NextMatchID), "next match %s must exist", m.NextMatchID)
	}
}

func TestByeMatchesStartWithOneParticipant(t *testing.T) {
	bots := namedBots("a", "b", "c")
	tour := Build(bots)

	for _, m := range tour.StartingMatches {
		if m.State == rps.Bye {
			assert.Len(t, m.Participants, 1)
		}
	}
}

func TestDownstreamMatchesStartEmptyAndNotStarted(t *testing.T) {
	bots := namedBots("a", "b", "c", "d", "e", "f", "g")
	tour := Build(bots)

	for _, m := range tour.StartingMatches {
		if m.RoundLabel == "1" {
			continue
		}
		assert.Empty(t, m.Participants)
		assert.Equal(t, rps.NotStarted, m.State)
	}
}

func TestPowerOfTwoBracketHasNoByes(t *testing.T) {
	bots := namedBots("a", "b", "c", "d")
	tour := Build(bots)
	assert.Equal(t, 0, countByes(tour.StartingMatches))
	assert.Len(t, tour.StartingMatches, 3) // 2 round-1 + 1 final
}
