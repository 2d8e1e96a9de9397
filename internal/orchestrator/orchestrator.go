// Package orchestrator is the tournament driver (C5): it walks a built
// Tournament's matches in order, running each one, promoting winners
// downstream, and persisting every emitted outcome so late subscribers
// can reconstruct state.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpsarena/engine/internal/broadcast"
	"github.com/rpsarena/engine/internal/rps"
)

// MatchRunner is the match engine's contract as seen from the driver.
// *match.Engine satisfies this. Registry-backed bookkeeping (disabling a
// bot that played Invalid) is the match engine's responsibility, wired in
// when it was constructed — the driver itself has no separate registry
// dependency beyond the bot references already on its matches.
type MatchRunner interface {
	Run(ctx context.Context, matchID string, botA, botB *rps.Bot) (*rps.MatchOutcome, error)
}

// Driver runs one tournament to completion.
type Driver struct {
	Matches MatchRunner
	Publish broadcast.Publisher
}

// New builds a Driver.
func New(matches MatchRunner, pub broadcast.Publisher) *Driver {
	return &Driver{Matches: matches, Publish: pub}
}

// Run iterates tournament.StartingMatches in order, which C4 guarantees
// is topologically sorted: every match's feeders appear earlier in the
// list, so by the time the driver reaches a match its participants are
// already fully populated.
func (d *Driver) Run(ctx context.Context, tournament *rps.Tournament) error {
	for _, m := range tournament.StartingMatches {
		d.emit(ctx, tournament, d.snapshot(m, rps.InProgress, ""))

		if m.State == rps.Bye {
			outcome := d.finishBye(m)
			d.emit(ctx, tournament, outcome)
			d.promote(tournament, m, m.Participants[0])
			continue
		}

		if len(m.Participants) != 2 {
			return fmt.Errorf("orchestrator: match %s has %d participants, want 2", m.ID, len(m.Participants))
		}

		outcome, err := d.Matches.Run(ctx, m.ID, m.Participants[0], m.Participants[1])
		if err != nil {
			return fmt.Errorf("orchestrator: match %s: %w", m.ID, err)
		}
		m.State = rps.Finished
		d.emit(ctx, tournament, *outcome)
		d.promote(tournament, m, m.Participants[outcome.WinnerIndex])
	}
	return nil
}

func (d *Driver) finishBye(m *rps.Match) rps.MatchOutcome {
	m.State = rps.Bye
	bot := m.Participants[0]
	return rps.MatchOutcome{
		MatchID:     m.ID,
		State:       rps.Bye,
		Note:        "Bye",
		WinnerIndex: 0,
		Participants: []rps.ParticipantOutcome{
			{Name: bot.DisplayName, Moves: nil, Winner: false},
		},
	}
}

func (d *Driver) snapshot(m *rps.Match, state rps.MatchState, note string) rps.MatchOutcome {
	participants := make([]rps.ParticipantOutcome, len(m.Participants))
	for i, bot := range m.Participants {
		participants[i] = rps.ParticipantOutcome{Name: bot.DisplayName}
	}
	return rps.MatchOutcome{
		MatchID:      m.ID,
		State:        state,
		Note:         note,
		WinnerIndex:  0,
		Participants: participants,
	}
}

// promote appends the winner to the downstream match's participant list.
// A match with no NextMatchID is the final: its winner is the champion
// and there is nothing further to do.
func (d *Driver) promote(tournament *rps.Tournament, m *rps.Match, winner *rps.Bot) {
	if m.NextMatchID == "" {
		return
	}
	next := tournament.MatchByID(m.NextMatchID)
	if next == nil {
		return
	}
	next.Participants = append(next.Participants, winner)
}

func (d *Driver) emit(ctx context.Context, tournament *rps.Tournament, outcome rps.MatchOutcome) {
	tournament.MatchUpdates = append(tournament.MatchUpdates, outcome)
	data, err := json.Marshal(outcome)
	if err != nil {
		return
	}
	d.Publish.Publish(ctx, data)
}
