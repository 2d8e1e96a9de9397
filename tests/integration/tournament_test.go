// Package integration exercises the full bracket -> match -> orchestrator
// pipeline end to end, the way the teacher's docker-backed integration
// suite exercised a real sandbox driver — except the executor here is a
// deterministic stub, so no compiled wazero interpreter module is needed
// to validate the wiring.
package integration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpsarena/engine/internal/bracket"
	"github.com/rpsarena/engine/internal/broadcast"
	"github.com/rpsarena/engine/internal/match"
	"github.com/rpsarena/engine/internal/orchestrator"
	"github.com/rpsarena/engine/internal/registry"
	"github.com/rpsarena/engine/internal/rps"
)

// rockRunner is a stub match.Runner: every bot always plays Rock,
// deterministically reaching a legal tie every round, so matches fall
// through to the coin toss. Good enough to prove every match in a
// bracket actually gets played and promotion wires correctly.
type rockRunner struct{}

func (rockRunner) Run(ctx context.Context, bot *rps.Bot, stdin []byte) (*rps.RunResult, error) {
	return &rps.RunResult{Play: rps.Rock}, nil
}

// seedRunner makes bot "alphabot" always beat everyone else, giving a
// predictable champion to assert on.
type seedRunner struct {
	favourite string
}

func (r seedRunner) Run(ctx context.Context, bot *rps.Bot, stdin []byte) (*rps.RunResult, error) {
	var in rps.RunInput
	if err := json.Unmarshal(stdin, &in); err != nil {
		return nil, err
	}
	if in.BotName == r.favourite {
		return &rps.RunResult{Play: rps.Rock}, nil
	}
	return &rps.RunResult{Play: rps.Scissors}, nil
}

func TestTournamentResolvesToChampionAcrossByes(t *testing.T) {
	bots := []*rps.Bot{
		{Kind: rps.Scripted, DisplayName: "alphabot"},
		{Kind: rps.Scripted, DisplayName: "bravobot"},
		{Kind: rps.Scripted, DisplayName: "charliebot"},
		{Kind: rps.Scripted, DisplayName: "deltabot"},
		{Kind: rps.Scripted, DisplayName: "echobot"},
	}

	tournament := bracket.Build(bots)

	reg := registry.NewMemoryRegistry()
	hub := broadcast.NewHub()
	updates, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	engine := match.New(seedRunner{favourite: "alphabot"}, reg, hub, func() int { return 0 })
	driver := orchestrator.New(engine, hub)

	require.NoError(t, driver.Run(context.Background(), tournament))

	final := tournament.StartingMatches[len(tournament.StartingMatches)-1]
	assert.Empty(t, final.NextMatchID)
	require.Equal(t, rps.Finished, final.State)

	last := tournament.MatchUpdates[len(tournament.MatchUpdates)-1]
	require.Len(t, last.Participants, 2)
	var championName string
	for _, p := range last.Participants {
		if p.Winner {
			championName = p.Name
		}
	}
	assert.Equal(t, "alphabot", championName)

	// Every published update should also have been delivered live.
	for range tournament.MatchUpdates {
		select {
		case <-updates:
		default:
			t.Fatal("expected a live update for every persisted match update")
		}
	}
}

func TestTournamentWithPowerOfTwoHasNoByes(t *testing.T) {
	bots := []*rps.Bot{
		{Kind: rps.Scripted, DisplayName: "north"},
		{Kind: rps.Scripted, DisplayName: "south"},
		{Kind: rps.Scripted, DisplayName: "east"},
		{Kind: rps.Scripted, DisplayName: "west"},
	}
	tournament := bracket.Build(bots)

	reg := registry.NewMemoryRegistry()
	hub := broadcast.NewHub()
	engine := match.New(rockRunner{}, reg, hub, func() int { return 1 })
	driver := orchestrator.New(engine, hub)

	require.NoError(t, driver.Run(context.Background(), tournament))
	for _, m := range tournament.StartingMatches {
		assert.NotEqual(t, rps.Bye, m.State)
	}
}
