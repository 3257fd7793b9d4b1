package bot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Difficulty selects a built-in bot profile.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// Profile is the tunable decision table for one bot. The policy is the same
// at every difficulty; only these numbers change.
type Profile struct {
	// TakeDiscardThreshold: take the discard top when its value is at or
	// below this.
	TakeDiscardThreshold int `yaml:"takeDiscardThreshold"`
	// TakeDiscardChance gates a qualifying discard take with a coin flip,
	// so the bot isn't deterministically exploitable.
	TakeDiscardChance float64 `yaml:"takeDiscardChance"`
	// SpecialUseChance is the probability of triggering a drawn special's
	// power instead of treating it as a number.
	SpecialUseChance float64 `yaml:"specialUseChance"`
	// PobudkaScoreThreshold: consider calling once the estimated hand total
	// is at or below this.
	PobudkaScoreThreshold int `yaml:"pobudkaScoreThreshold"`
	// PobudkaChance gates a qualifying call.
	PobudkaChance float64 `yaml:"pobudkaChance"`
	// KeepDrawnThreshold: a drawn card at or below this is worth swapping
	// into an unknown slot.
	KeepDrawnThreshold int `yaml:"keepDrawnThreshold"`
}

// builtins are the default difficulty tiers. Harder bots chase better
// discards, use specials more, and call Pobudka earlier and more readily.
var builtins = map[Difficulty]Profile{
	Easy: {
		TakeDiscardThreshold:  2,
		TakeDiscardChance:     0.5,
		SpecialUseChance:      0.35,
		PobudkaScoreThreshold: 6,
		PobudkaChance:         0.4,
		KeepDrawnThreshold:    4,
	},
	Normal: {
		TakeDiscardThreshold:  3,
		TakeDiscardChance:     0.75,
		SpecialUseChance:      0.65,
		PobudkaScoreThreshold: 9,
		PobudkaChance:         0.65,
		KeepDrawnThreshold:    4,
	},
	Hard: {
		TakeDiscardThreshold:  4,
		TakeDiscardChance:     0.9,
		SpecialUseChance:      0.9,
		PobudkaScoreThreshold: 12,
		PobudkaChance:         0.85,
		KeepDrawnThreshold:    5,
	},
}

// ProfileFor returns the built-in profile for a difficulty, defaulting to
// Normal for unknown values.
func ProfileFor(d Difficulty) Profile {
	if p, ok := builtins[d]; ok {
		return p
	}
	return builtins[Normal]
}

// LoadProfiles reads a difficulty -> profile table from a YAML file,
// overlaying the built-in tiers. Difficulties absent from the file keep
// their defaults.
func LoadProfiles(path string) (map[Difficulty]Profile, error) {
	out := make(map[Difficulty]Profile, len(builtins))
	for d, p := range builtins {
		out[d] = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bot profiles: %w", err)
	}
	var loaded map[Difficulty]Profile
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse bot profiles: %w", err)
	}
	for d, p := range loaded {
		out[d] = p
	}
	return out, nil
}
