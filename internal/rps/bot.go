package rps

import (
	"fmt"
	"unicode/utf8"
)

// BotKind distinguishes pre-compiled WASI modules from interpreted source
// programs. Both are presented to the executor through the same Bot type
// and the same run contract (§4.2/§9 — "dual bot backends... uniformly").
type BotKind int

const (
	Native BotKind = iota
	Scripted
)

func (k BotKind) String() string {
	if k == Scripted {
		return "Scripted"
	}
	return "Native"
}

// KindTag is the persisted registry encoding for BotKind (§6: kind_tag,
// 1=Native, 2=Scripted).
func (k BotKind) KindTag() int {
	if k == Scripted {
		return 2
	}
	return 1
}

// BotKindFromTag reverses KindTag.
func BotKindFromTag(tag int) (BotKind, error) {
	switch tag {
	case 1:
		return Native, nil
	case 2:
		return Scripted, nil
	default:
		return 0, fmt.Errorf("rps: unknown bot kind tag %d", tag)
	}
}

// Bot is a user-submitted program. RegistryID is absent (nil) for ad-hoc
// test runs that never touch the registry. For Native bots persisted by
// key only, Bytes is empty and the executor loads the module from the blob
// store on each run; the loaded bytes are not stored back on the Bot.
type Bot struct {
	RegistryID  *int
	Kind        BotKind
	DisplayName string
	SourceText  string
	BlobKey     string
	Bytes       []byte
}

// MaxDisplayNameLen and MinDisplayNameLen bound Bot.DisplayName (§6).
const (
	MinDisplayNameLen = 1
	MaxDisplayNameLen = 30
)

// ValidateDisplayName enforces the 1-30 char contract bots are admitted
// under.
func ValidateDisplayName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinDisplayNameLen {
		return fmt.Errorf("rps: bot display name cannot be empty")
	}
	if n > MaxDisplayNameLen {
		return fmt.Errorf("rps: bot display name is limited to %d characters", MaxDisplayNameLen)
	}
	return nil
}

// HasRegistryID reports whether this bot is tracked in the registry (as
// opposed to an ad-hoc test-run bot).
func (b *Bot) HasRegistryID() bool {
	return b.RegistryID != nil
}
