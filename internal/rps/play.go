// Package rps holds the data model shared by the sandbox, match, and
// bracket layers: plays, bots, run inputs/results, and tournament state.
package rps

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Play is a tagged variant over the four things a bot can do in a round.
// The integer values are the wire encoding used on bot stdin (§6) and match
// the ordering the original Rust implementation used for its SPROption enum.
type Play int

const (
	Scissors Play = iota
	Paper
	Rock
	Invalid
)

func (p Play) String() string {
	switch p {
	case Scissors:
		return "Scissors"
	case Paper:
		return "Paper"
	case Rock:
		return "Rock"
	case Invalid:
		return "Invalid"
	default:
		return fmt.Sprintf("Play(%d)", int(p))
	}
}

// MarshalJSON encodes a Play as its wire integer.
func (p Play) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(p))
}

// UnmarshalJSON decodes a Play from its wire integer.
func (p *Play) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = Play(n)
	return nil
}

// ParsePlay maps a bot's stdout line to a Play, ignoring letter case and
// surrounding whitespace. Anything other than the three legal names is
// Invalid.
func ParsePlay(s string) Play {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock":
		return Rock
	case "paper":
		return Paper
	case "scissors":
		return Scissors
	default:
		return Invalid
	}
}

// Beats reports whether p beats q under the RPS beat-relation, with Invalid
// as a first-class loser: any legal play beats Invalid, and Invalid never
// beats anything (including another Invalid).
func (p Play) Beats(q Play) bool {
	if p == Invalid {
		return false
	}
	if q == Invalid {
		return true
	}
	switch p {
	case Rock:
		return q == Scissors
	case Scissors:
		return q == Paper
	case Paper:
		return q == Rock
	}
	return false
}
