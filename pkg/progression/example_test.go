package progression_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/skilltree/pkg/progression"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

func ExampleTryUpgrade() {
	tree, _ := skilltree.New(skilltree.Tree{
		PlayerLevel:     0,
		AvailablePoints: 3,
		Skills: []skilltree.Skill{
			{ID: "sword", MaxLevel: 5, Cost: 3},
			{ID: "shield", MaxLevel: 3, Cost: 2, RequiredSkills: []string{"sword"}},
		},
	})

	_, err := progression.TryUpgrade(tree, "shield")
	fmt.Println(errors.Is(err, progression.ErrPrerequisites))

	tree, _ = progression.TryUpgrade(tree, "sword")
	sword, _ := tree.Skill("sword")
	fmt.Println(sword.Level, sword.IsUnlocked, tree.AvailablePoints)

	_, err = progression.TryUpgrade(tree, "sword")
	fmt.Println(err)
	// Output:
	// true
	// 1 true 0
	// upgrade "sword": INVALID_OPERATION: player level too low
}

func ExampleDowngrade() {
	tree, _ := skilltree.New(skilltree.Tree{
		AvailablePoints: 2,
		Skills: []skilltree.Skill{
			{ID: "a", MaxLevel: 1, Cost: 1},
			{ID: "b", MaxLevel: 1, Cost: 1, RequiredSkills: []string{"a"}},
		},
	})
	tree = progression.Upgrade(progression.Upgrade(tree, "a"), "b")

	// b still needs a.
	tree = progression.Downgrade(tree, "a")
	fmt.Println(progression.StateOf(tree, "a"), tree.AvailablePoints)

	tree = progression.Downgrade(tree, "b")
	tree = progression.Downgrade(tree, "a")
	fmt.Println(progression.StateOf(tree, "a"), tree.AvailablePoints)
	// Output:
	// Maxed 0
	// Eligible 2
}

func ExampleSummarize() {
	tree, _ := skilltree.New(skilltree.Tree{
		PlayerLevel:     10,
		AvailablePoints: 15,
		Skills: []skilltree.Skill{
			{ID: "sword-mastery", MaxLevel: 5, Cost: 3, Level: 2},
			{ID: "shield-defense", MaxLevel: 3, Cost: 2, Level: 3, RequiredSkills: []string{"sword-mastery"}},
			{ID: "precision-strike", MaxLevel: 4, Cost: 4, RequiredSkills: []string{"sword-mastery", "shield-defense"}},
		},
	})

	sum := progression.Summarize(tree)
	fmt.Printf("%d/%d maxed, %.0f%%, %d points spent\n", sum.Maxed, sum.Skills, sum.CompletionRatio*100, sum.SpentPoints)
	for _, st := range progression.States {
		fmt.Printf("%s: %d\n", st, sum.States[st])
	}
	// Output:
	// 1/3 maxed, 33%, 12 points spent
	// Locked: 0
	// Eligible: 1
	// Partial: 1
	// Maxed: 1
}
