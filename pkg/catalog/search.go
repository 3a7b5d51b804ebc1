package catalog

import (
	"github.com/sahilm/fuzzy"

	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// Match is a skill found by [Search].
type Match struct {
	SkillID string `json:"skill_id"`
	Name    string `json:"name"`
	Score   int    `json:"score"`

	// Positions of the matched characters in Name + " " + SkillID.
	MatchedIndexes []int `json:"matched_indexes,omitempty"`
}

type skillSource []skilltree.Skill

func (s skillSource) String(i int) string { return s[i].Name + " " + s[i].ID }
func (s skillSource) Len() int            { return len(s) }

// Search fuzzy-matches query against skill names and IDs, best match first.
// An empty query returns every skill in tree order.
func Search(t skilltree.Tree, query string) []Match {
	if query == "" {
		out := make([]Match, len(t.Skills))
		for i, s := range t.Skills {
			out[i] = Match{SkillID: s.ID, Name: s.Name}
		}
		return out
	}

	found := fuzzy.FindFrom(query, skillSource(t.Skills))
	out := make([]Match, len(found))
	for i, m := range found {
		s := t.Skills[m.Index]
		out[i] = Match{SkillID: s.ID, Name: s.Name, Score: m.Score, MatchedIndexes: m.MatchedIndexes}
	}
	return out
}
