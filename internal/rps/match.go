package rps

// MatchState is the lifecycle of a single bracket slot.
type MatchState string

const (
	NotStarted MatchState = "NotStarted"
	Bye        MatchState = "Bye"
	InProgress MatchState = "InProgress"
	Finished   MatchState = "Finished"
)

// Match is one bracket slot. NextMatchID is empty for the final match.
// Participants accumulates as feeder matches finish; a Bye match starts
// with exactly one participant, a non-Bye starting match with exactly two,
// and downstream matches start empty.
type Match struct {
	ID          string
	RoundLabel  string
	NextMatchID string
	Participants []*Bot
	State       MatchState
}

// ParticipantOutcome is one bot's result within a finished match.
type ParticipantOutcome struct {
	Name   string `json:"name"`
	Moves  []Play `json:"moves"`
	Winner bool   `json:"winner"`
}

// MatchOutcome is the event emitted and persisted every time a match's
// state changes (§3/§6). WinnerIndex is 0 or 1; for a Bye it is always 0 and
// carries no meaning as a declared victory (§9 Open Question).
type MatchOutcome struct {
	MatchID      string               `json:"match_id"`
	State        MatchState           `json:"state"`
	Note         string               `json:"note,omitempty"`
	WinnerIndex  int                  `json:"winner"`
	Participants []ParticipantOutcome `json:"participants"`
}

// Tournament is the topologically-ordered bracket, owned exclusively by the
// driver while it runs (§3).
type Tournament struct {
	StartingMatches []*Match
	MatchUpdates    []MatchOutcome
}

// Clone copies the tournament for handing to broadcast subscribers: each
// Match is copied, along with the StartingMatches, MatchUpdates and
// per-match Participants slices. The *Bot values and each outcome's
// Participants and Moves slices are shared with the original.
func (t *Tournament) Clone() *Tournament {
	clone := &Tournament{
		StartingMatches: make([]*Match, len(t.StartingMatches)),
		MatchUpdates:    make([]MatchOutcome, len(t.MatchUpdates)),
	}
	for i, m := range t.StartingMatches {
		participants := make([]*Bot, len(m.Participants))
		copy(participants, m.Participants)
		clone.StartingMatches[i] = &Match{
			ID:           m.ID,
			RoundLabel:   m.RoundLabel,
			NextMatchID:  m.NextMatchID,
			Participants: participants,
			State:        m.State,
		}
	}
	copy(clone.MatchUpdates, t.MatchUpdates)
	return clone
}

// MatchByID returns the match with the given id, or nil.
func (t *Tournament) MatchByID(id string) *Match {
	for _, m := range t.StartingMatches {
		if m.ID == id {
			return m
		}
	}
	return nil
}
