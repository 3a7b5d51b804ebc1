// Package progression decides which skills of a tree can be bought and
// applies upgrades and downgrades.
//
// # Rules
//
// A skill can gain a level when it is below its max level, the player level
// is at least level × [LevelGateStep] and the player can pay its cost. A
// locked skill additionally needs every required skill unlocked. Leveling a
// skill down refunds its cost, but a skill at level 1 stays unlocked while any
// unlocked skill requires it.
//
// # Snapshots
//
// Every operation takes a [skilltree.Tree] by value and returns a new one.
// [Upgrade] and [Downgrade] return the input unchanged when a rule blocks the
// step; [TryUpgrade] and [TryDowngrade] also return the reason, one of the
// Err* values in this package:
//
//	next, err := progression.TryUpgrade(tree, "shield-defense")
//	if errors.Is(err, progression.ErrInsufficientPoints) {
//		...
//	}
//
// The package holds no state and performs no I/O.
package progression
