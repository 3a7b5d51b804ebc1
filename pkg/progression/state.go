package progression

import (
	"fmt"

	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// State is the progression state of one skill.
type State int

const (
	// StateLocked: level 0 and not purchasable right now.
	StateLocked State = iota
	// StateEligible: level 0 and purchasable right now.
	StateEligible
	// StatePartial: unlocked but below max level.
	StatePartial
	// StateMaxed: at max level; terminal for upgrades.
	StateMaxed
)

// States lists every state in display order.
var States = []State{StateLocked, StateEligible, StatePartial, StateMaxed}

// Label returns a human-readable label for the state.
func (s State) Label() string {
	switch s {
	case StateLocked:
		return "Locked"
	case StateEligible:
		return "Eligible"
	case StatePartial:
		return "Partial"
	case StateMaxed:
		return "Maxed"
	default:
		return "Unknown"
	}
}

// Icon returns a single-character marker for terminal output.
func (s State) Icon() string {
	switch s {
	case StateLocked:
		return "🔒"
	case StateEligible:
		return "🔓"
	case StatePartial:
		return "◐"
	case StateMaxed:
		return "★"
	default:
		return "?"
	}
}

// String implements fmt.Stringer.
func (s State) String() string { return s.Label() }

// MarshalText encodes the state as its lower-case label.
func (s State) MarshalText() ([]byte, error) {
	switch s {
	case StateLocked:
		return []byte("locked"), nil
	case StateEligible:
		return []byte("eligible"), nil
	case StatePartial:
		return []byte("partial"), nil
	case StateMaxed:
		return []byte("maxed"), nil
	}
	return nil, fmt.Errorf("unknown state %d", int(s))
}

// StateOf classifies skill id of t. Maxed and Partial depend only on the
// level; a level-0 skill is Eligible when [IsSkillUnlockable] holds and
// Locked otherwise. Unknown IDs are Locked.
func StateOf(t skilltree.Tree, id string) State {
	s, ok := t.Skill(id)
	if !ok {
		return StateLocked
	}
	switch {
	case s.IsMaxed():
		return StateMaxed
	case s.Level > 0:
		return StatePartial
	case IsSkillUnlockable(s, t.Skills, t.PlayerLevel, t.AvailablePoints):
		return StateEligible
	}
	return StateLocked
}

// Eligibility returns, for every skill, whether it can be upgraded now.
// These are the per-render flags a presentation layer needs.
func Eligibility(t skilltree.Tree) map[string]bool {
	out := make(map[string]bool, len(t.Skills))
	for _, s := range t.Skills {
		out[s.ID] = IsSkillUnlockable(s, t.Skills, t.PlayerLevel, t.AvailablePoints)
	}
	return out
}

// Summary is an overview of a tree's progress.
type Summary struct {
	Skills          int           `json:"skills"`
	Unlocked        int           `json:"unlocked"`
	Maxed           int           `json:"maxed"`
	Eligible        int           `json:"eligible"` // Skills upgradable right now, any level
	CompletionRatio float64       `json:"completion_ratio"`
	SpentPoints     int           `json:"spent_points"`
	AvailablePoints int           `json:"available_points"`
	PlayerLevel     int           `json:"player_level"`
	States          map[State]int `json:"states"`
}

// Summarize computes the overview of t.
func Summarize(t skilltree.Tree) Summary {
	sum := Summary{
		Skills:          len(t.Skills),
		CompletionRatio: CompletionRatio(t.Skills),
		SpentPoints:     TotalSpentPoints(t.Skills),
		AvailablePoints: t.AvailablePoints,
		PlayerLevel:     t.PlayerLevel,
		States:          make(map[State]int, len(States)),
	}
	for _, s := range t.Skills {
		if s.IsUnlocked {
			sum.Unlocked++
		}
		if s.IsMaxed() {
			sum.Maxed++
		}
		if IsSkillUnlockable(s, t.Skills, t.PlayerLevel, t.AvailablePoints) {
			sum.Eligible++
		}
		sum.States[StateOf(t, s.ID)]++
	}
	return sum
}

// Requirement describes what the next level of a skill needs and which
// conditions currently hold.
type Requirement struct {
	SkillID              string   `json:"skill_id"`
	Level                int      `json:"level"`
	MaxLevel             int      `json:"max_level"`
	Cost                 int      `json:"cost"`
	RequiredPlayerLevel  int      `json:"required_player_level"`
	HasLevel             bool     `json:"has_level"`
	CanAfford            bool     `json:"can_afford"`
	MissingPrerequisites []string `json:"missing_prerequisites,omitempty"`
	Maxed                bool     `json:"maxed"`
	Upgradable           bool     `json:"upgradable"`
	Downgradable         bool     `json:"downgradable"`
	BlockingDependents   []string `json:"blocking_dependents,omitempty"`
}

// Requirements reports the upgrade requirements of skill id. It returns
// [ErrUnknownSkill] (wrapped) for an unknown ID.
//
// Prerequisites are only listed as missing while the skill is locked, since
// an unlocked skill never re-checks them.
func Requirements(t skilltree.Tree, id string) (Requirement, error) {
	s, ok := t.Skill(id)
	if !ok {
		return Requirement{}, fmt.Errorf("requirements %q: %w", id, ErrUnknownSkill)
	}

	r := Requirement{
		SkillID:             s.ID,
		Level:               s.Level,
		MaxLevel:            s.MaxLevel,
		Cost:                s.Cost,
		RequiredPlayerLevel: RequiredPlayerLevel(s),
		HasLevel:            t.PlayerLevel >= RequiredPlayerLevel(s),
		CanAfford:           t.AvailablePoints >= s.Cost,
		Maxed:               s.IsMaxed(),
		Upgradable:          IsSkillUnlockable(s, t.Skills, t.PlayerLevel, t.AvailablePoints),
	}
	if !s.IsUnlocked {
		r.MissingPrerequisites = MissingPrerequisites(s, t.Skills)
	}
	if s.Level > 0 {
		if deps := UnlockedDependents(t, id); len(deps) > 0 && s.Level <= 1 {
			r.BlockingDependents = deps
		} else {
			r.Downgradable = true
		}
	}
	return r, nil
}
