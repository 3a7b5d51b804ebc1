package progression

import (
	"fmt"

	errs "github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// LevelGateStep is the number of player levels each skill level demands:
// raising a skill from level L requires a player level of at least L*5.
const LevelGateStep = 5

// Rejection reasons reported by [TryUpgrade] and [TryDowngrade]. All carry
// the INVALID_OPERATION code; match them with errors.Is.
var (
	ErrUnknownSkill       = errs.New(errs.ErrCodeInvalidOperation, "unknown skill")
	ErrMaxLevel           = errs.New(errs.ErrCodeInvalidOperation, "skill is already at max level")
	ErrPrerequisites      = errs.New(errs.ErrCodeInvalidOperation, "required skills are not unlocked")
	ErrPlayerLevel        = errs.New(errs.ErrCodeInvalidOperation, "player level too low")
	ErrInsufficientPoints = errs.New(errs.ErrCodeInvalidOperation, "not enough points")
	ErrNotUnlocked        = errs.New(errs.ErrCodeInvalidOperation, "skill is not unlocked")
	ErrHasDependents      = errs.New(errs.ErrCodeInvalidOperation, "unlocked skills depend on it")
)

// RequiredPlayerLevel returns the player level needed for the next level-up.
func RequiredPlayerLevel(s skilltree.Skill) int {
	return s.Level * LevelGateStep
}

// CanUpgrade reports whether s can gain a level given the player's level and
// points. It checks the level cap, the level gate and the cost, but not
// prerequisites; see [IsSkillUnlockable].
func CanUpgrade(s skilltree.Skill, playerLevel, availablePoints int) bool {
	return upgradeBlocker(s, playerLevel, availablePoints) == nil
}

func upgradeBlocker(s skilltree.Skill, playerLevel, availablePoints int) error {
	switch {
	case s.Level >= s.MaxLevel:
		return ErrMaxLevel
	case playerLevel < RequiredPlayerLevel(s):
		return ErrPlayerLevel
	case availablePoints < s.Cost:
		return ErrInsufficientPoints
	}
	return nil
}

// PrerequisitesMet reports whether every required skill of s is present in
// all and unlocked. Missing IDs count as locked.
func PrerequisitesMet(s skilltree.Skill, all []skilltree.Skill) bool {
	return len(MissingPrerequisites(s, all)) == 0
}

// MissingPrerequisites returns the required skill IDs of s that are absent
// from all or not unlocked, in requirement order.
func MissingPrerequisites(s skilltree.Skill, all []skilltree.Skill) []string {
	var missing []string
	for _, req := range s.RequiredSkills {
		if !isUnlocked(all, req) {
			missing = append(missing, req)
		}
	}
	return missing
}

func isUnlocked(all []skilltree.Skill, id string) bool {
	for _, s := range all {
		if s.ID == id {
			return s.IsUnlocked
		}
	}
	return false
}

// IsSkillUnlockable reports whether s can be upgraded right now. Skills that
// are already unlocked only need [CanUpgrade]; locked skills additionally need
// every prerequisite unlocked. Skills without prerequisites are roots.
func IsSkillUnlockable(s skilltree.Skill, all []skilltree.Skill, playerLevel, availablePoints int) bool {
	if !s.IsUnlocked && !PrerequisitesMet(s, all) {
		return false
	}
	return CanUpgrade(s, playerLevel, availablePoints)
}

// Upgrade returns a copy of t with skill id raised one level and its cost
// deducted. If the upgrade is not allowed, t is returned unchanged.
func Upgrade(t skilltree.Tree, id string) skilltree.Tree {
	out, _ := TryUpgrade(t, id)
	return out
}

// TryUpgrade is [Upgrade] with the rejection reason. On error the returned
// tree is t itself.
func TryUpgrade(t skilltree.Tree, id string) (skilltree.Tree, error) {
	i := t.Index(id)
	if i < 0 {
		return t, fmt.Errorf("upgrade %q: %w", id, ErrUnknownSkill)
	}
	s := t.Skills[i]
	if s.Level >= s.MaxLevel {
		return t, fmt.Errorf("upgrade %q: %w", id, ErrMaxLevel)
	}
	if !s.IsUnlocked && !PrerequisitesMet(s, t.Skills) {
		return t, fmt.Errorf("upgrade %q: %w", id, ErrPrerequisites)
	}
	if err := upgradeBlocker(s, t.PlayerLevel, t.AvailablePoints); err != nil {
		return t, fmt.Errorf("upgrade %q: %w", id, err)
	}

	out := t.Clone()
	up := &out.Skills[i]
	up.Level++
	up.IsUnlocked = true
	out.AvailablePoints -= up.Cost
	return out, nil
}

// Downgrade returns a copy of t with skill id lowered one level and its cost
// refunded. A skill at level 1 cannot be downgraded while an unlocked skill
// requires it. If the downgrade is not allowed, t is returned unchanged.
func Downgrade(t skilltree.Tree, id string) skilltree.Tree {
	out, _ := TryDowngrade(t, id)
	return out
}

// TryDowngrade is [Downgrade] with the rejection reason. On error the
// returned tree is t itself.
func TryDowngrade(t skilltree.Tree, id string) (skilltree.Tree, error) {
	i := t.Index(id)
	if i < 0 {
		return t, fmt.Errorf("downgrade %q: %w", id, ErrUnknownSkill)
	}
	s := t.Skills[i]
	if s.Level <= 0 {
		return t, fmt.Errorf("downgrade %q: %w", id, ErrNotUnlocked)
	}
	if deps := UnlockedDependents(t, id); len(deps) > 0 && s.Level <= 1 {
		return t, fmt.Errorf("downgrade %q: %w: %v", id, ErrHasDependents, deps)
	}

	out := t.Clone()
	down := &out.Skills[i]
	down.Level--
	down.IsUnlocked = down.Level > 0
	out.AvailablePoints += down.Cost
	return out, nil
}

// UnlockedDependents returns the skills that require id and are currently
// unlocked, in tree order.
func UnlockedDependents(t skilltree.Tree, id string) []string {
	var deps []string
	for _, s := range t.Skills {
		if s.ID != id && s.Requires(id) && s.IsUnlocked && s.Level > 0 {
			deps = append(deps, s.ID)
		}
	}
	return deps
}

// TotalSpentPoints returns the sum of cost × level over all skills.
func TotalSpentPoints(skills []skilltree.Skill) int {
	total := 0
	for _, s := range skills {
		total += s.Cost * s.Level
	}
	return total
}

// CompletionRatio returns the fraction of skills at max level, or 0 when
// there are no skills.
func CompletionRatio(skills []skilltree.Skill) float64 {
	if len(skills) == 0 {
		return 0
	}
	maxed := 0
	for _, s := range skills {
		if s.IsMaxed() {
			maxed++
		}
	}
	return float64(maxed) / float64(len(skills))
}
