package rps

import "time"

// RunInput is serialised to a bot's stdin as a single JSON object (§6). The
// history field carries the bot's OWN prior plays in this match — not the
// opponent's — per the Open Question resolved in spec.md §9/DESIGN.md.
type RunInput struct {
	BotName  string `json:"botname"`
	Opponent string `json:"opponent"`
	Round    uint32 `json:"round"`
	History  []Play `json:"history"`
}

// RunResult is the structured outcome of one sandboxed bot execution. It is
// always fully populated, even when Play is Invalid: the executor never
// raises an error for bot misbehaviour (§4.2/§7).
type RunResult struct {
	StdinEcho     []byte
	Stdout        []byte
	Stderr        []byte
	Duration      time.Duration
	Play          Play
	InvalidReason string // empty when Play is legal
}

// IsInvalid reports whether the run produced an Invalid play.
func (r *RunResult) IsInvalid() bool {
	return r.Play == Invalid
}

// Invalid-reason strings are fixed wire text bots and operators key off of
// (§4.2). Centralising them here keeps the executor and its tests from
// drifting apart.
const (
	ReasonWasmLoadFailed  = "Error loading wasm module"
	ReasonTimeout         = "Timeout! Bots are limited to 1000ms"
	ReasonFuelExhausted   = "Program ran out of fuel: It reached the limit of 1000000000 wasm instructions."
	ReasonRuntimeError    = "Program did not exit successfully."
	ReasonNoValidPlay     = "Program did not print a valid play on the last line."
)
