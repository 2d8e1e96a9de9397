// Package bracket builds a single-elimination tournament tree (C4) from
// an ordered list of bots: pad to the next power of two with byes, then
// fold pairs of matches into parents round by round.
package bracket

import (
	"fmt"

	"github.com/rpsarena/engine/internal/rps"
)

// Build constructs a Tournament from bots, deterministic for a given
// input order. Callers that want a random bracket shuffle bots first.
func Build(bots []*rps.Bot) *rps.Tournament {
	n := len(bots)
	p := nextPowerOfTwo(n)
	b := p - n

	paired := bots[:n-b]
	byes := bots[n-b:]

	level := make([]*rps.Match, 0, len(paired)/2+len(byes))
	for i := 0; i+1 < len(paired); i += 2 {
		a, c := paired[i], paired[i+1]
		level = append(level, &rps.Match{
			ID:           a.DisplayName + "-" + c.DisplayName,
			RoundLabel:   "1",
			Participants: []*rps.Bot{a, c},
			State:        rps.NotStarted,
		})
	}
	for _, bye := range byes {
		level = append(level, &rps.Match{
			ID:           bye.DisplayName + "-bye",
			RoundLabel:   "1",
			Participants: []*rps.Bot{bye},
			State:        rps.Bye,
		})
	}

	all := append([]*rps.Match{}, level...)
	round := 2
	for len(level) > 1 {
		next := make([]*rps.Match, 0, len(level)/2)
		for i := 0; i+1 < len(level); i += 2 {
			child1, child2 := level[i], level[i+1]
			parent := &rps.Match{
				ID:         child1.ID + "-" + child2.ID,
				RoundLabel: fmt.Sprintf("%d", round),
				State:      rps.NotStarted,
			}
			child1.NextMatchID = parent.ID
			child2.NextMatchID = parent.ID
			next = append(next, parent)
		}
		all = append(all, next...)
		level = next
		round++
	}

	return &rps.Tournament{StartingMatches: all}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
