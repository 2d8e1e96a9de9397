// Package match is the match engine (C3): it plays up to five rounds of
// rock-paper-scissors between two bots, adjudicating round-by-round and
// broadcasting live snapshots as it goes.
package match

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/rpsarena/engine/internal/broadcast"
	"github.com/rpsarena/engine/internal/registry"
	"github.com/rpsarena/engine/internal/rps"
)

const maxRounds = 5
const winsNeeded = 3

// Runner is the bot executor's contract as seen from the match engine.
// *executor.Executor satisfies this; tests substitute a stub.
type Runner interface {
	Run(ctx context.Context, bot *rps.Bot, stdin []byte) (*rps.RunResult, error)
}

// CoinToss is injectable so tests can pin the tie-break outcome; it must
// return 0 or 1. The default, Default, calls math/rand/v2.
type CoinToss func() int

// Default picks uniformly between 0 and 1.
func Default() int {
	return rand.IntN(2)
}

// Engine runs matches against one executor, one registry (for post-match
// disables) and one broadcaster.
type Engine struct {
	Executor Runner
	Registry registry.Registry
	Publish  broadcast.Publisher
	CoinToss CoinToss
}

// New builds an Engine. If coinToss is nil, Default is used.
func New(exec Runner, reg registry.Registry, pub broadcast.Publisher, coinToss CoinToss) *Engine {
	if coinToss == nil {
		coinToss = Default
	}
	return &Engine{Executor: exec, Registry: reg, Publish: pub, CoinToss: coinToss}
}

// Run plays matchID between botA and botB and returns the Finished
// outcome. Infrastructure errors from the executor abort the match and
// bubble up; bot misbehaviour never does (§4.3).
func (e *Engine) Run(ctx context.Context, matchID string, botA, botB *rps.Bot) (*rps.MatchOutcome, error) {
	bots := [2]*rps.Bot{botA, botB}
	history := [2][]rps.Play{{}, {}}
	moves := [2][]rps.Play{{}, {}}
	roundWins := [2]int{}
	everInvalid := [2]bool{}

	decisive := false
	winner := -1
	note := ""

	for round := 0; round < maxRounds; round++ {
		results, err := e.playRound(ctx, bots, history, round)
		if err != nil {
			return nil, fmt.Errorf("match: round %d: %w", round, err)
		}

		for i := 0; i < 2; i++ {
			moves[i] = append(moves[i], results[i].Play)
			history[i] = append(history[i], results[i].Play)
			if results[i].Play == rps.Invalid {
				everInvalid[i] = true
			}
		}

		mutualInvalid := false
		p0, p1 := results[0].Play, results[1].Play
		switch {
		case p0 == rps.Invalid && p1 == rps.Invalid:
			mutualInvalid = true // no winner yet, falls through to tie-break

		case p0 == rps.Invalid && p1 != rps.Invalid:
			winner, decisive = 1, true

		case p1 == rps.Invalid && p0 != rps.Invalid:
			winner, decisive = 0, true

		case p0 == p1:
			// legal tie, no score change

		default:
			roundWinner := 0
			if p1.Beats(p0) {
				roundWinner = 1
			}
			roundWins[roundWinner]++
			if roundWins[roundWinner] == winsNeeded {
				winner, decisive = roundWinner, true
			}
		}

		e.publishSnapshot(ctx, matchID, bots, moves, rps.InProgress, "")

		if decisive || mutualInvalid {
			break
		}
	}

	if !decisive {
		if roundWins[0] != roundWins[1] {
			if roundWins[0] > roundWins[1] {
				winner = 0
			} else {
				winner = 1
			}
		} else {
			note = "5x Draw. Winner chosen by coin toss."
			winner = e.CoinToss()
		}
	}

	for i := 0; i < 2; i++ {
		if everInvalid[i] && bots[i].HasRegistryID() {
			if err := e.Registry.Disable(ctx, *bots[i].RegistryID); err != nil {
				return nil, fmt.Errorf("match: disable bot %d: %w", *bots[i].RegistryID, err)
			}
		}
	}

	return &rps.MatchOutcome{
		MatchID:     matchID,
		State:       rps.Finished,
		Note:        note,
		WinnerIndex: winner,
		Participants: []rps.ParticipantOutcome{
			{Name: bots[0].DisplayName, Moves: moves[0], Winner: winner == 0},
			{Name: bots[1].DisplayName, Moves: moves[1], Winner: winner == 1},
		},
	}, nil
}

func (e *Engine) playRound(ctx context.Context, bots [2]*rps.Bot, history [2][]rps.Play, round int) ([2]*rps.RunResult, error) {
	var results [2]*rps.RunResult

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 2; i++ {
		i := i
		opponent := bots[1-i]
		stdin, err := json.Marshal(rps.RunInput{
			BotName:  bots[i].DisplayName,
			Opponent: opponent.DisplayName,
			Round:    uint32(round),
			History:  history[i],
		})
		if err != nil {
			return results, fmt.Errorf("encode stdin for bot %d: %w", i, err)
		}
		g.Go(func() error {
			r, err := e.Executor.Run(gctx, bots[i], stdin)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (e *Engine) publishSnapshot(ctx context.Context, matchID string, bots [2]*rps.Bot, moves [2][]rps.Play, state rps.MatchState, note string) {
	snapshot := rps.MatchOutcome{
		MatchID:     matchID,
		State:       state,
		Note:        note,
		WinnerIndex: 0,
		Participants: []rps.ParticipantOutcome{
			{Name: bots[0].DisplayName, Moves: moves[0], Winner: false},
			{Name: bots[1].DisplayName, Moves: moves[1], Winner: false},
		},
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return // snapshot encoding can't fail on this type; nothing to do if it somehow did
	}
	e.Publish.Publish(ctx, data)
}
