package ordering

import (
	"fmt"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/skilltree/pkg/dag"
	"github.com/matzehuels/skilltree/pkg/dag/transform"
)

func layered(t *testing.T, ids []string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, id := range ids {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	if err := transform.Normalize(g); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestBarycentric_KeepsEveryNode(t *testing.T) {
	g := layered(t,
		[]string{"a", "b", "c", "d", "e", "f"},
		[][2]string{{"a", "d"}, {"b", "c"}, {"a", "e"}, {"c", "f"}, {"a", "f"}},
	)
	orders := Barycentric{}.OrderRows(g)

	var got []string
	for _, row := range g.RowIDs() {
		if len(orders[row]) != len(g.NodesInRow(row)) {
			t.Errorf("row %d has %d nodes, want %d", row, len(orders[row]), len(g.NodesInRow(row)))
		}
		got = append(got, orders[row]...)
	}
	want := dag.NodeIDs(g.Nodes())
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("ordered nodes = %v, want %v", got, want)
	}
}

func TestBarycentric_NeverWorseThanInput(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges [][2]string
	}{
		{"x pattern", []string{"a", "b", "x", "y"}, [][2]string{{"a", "y"}, {"b", "x"}}},
		{"k23", []string{"a", "b", "x", "y", "z"}, [][2]string{{"a", "x"}, {"a", "y"}, {"a", "z"}, {"b", "x"}, {"b", "z"}}},
		{"long edge", []string{"r", "m", "l", "s"}, [][2]string{{"r", "m"}, {"m", "l"}, {"r", "l"}, {"s", "m"}}},
		{"three ranks crossed", []string{"a", "b", "c", "d", "e", "f"},
			[][2]string{{"a", "d"}, {"b", "c"}, {"c", "f"}, {"d", "e"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := layered(t, tt.ids, tt.edges)
			base := dag.CountCrossings(g, InputOrder{}.OrderRows(g))
			got := dag.CountCrossings(g, Barycentric{}.OrderRows(g))
			if got > base {
				t.Errorf("crossings = %d, input order had %d", got, base)
			}
		})
	}
}

func TestBarycentric_RemovesAvoidableCrossings(t *testing.T) {
	g := layered(t,
		[]string{"a", "b", "c", "d", "e", "f"},
		[][2]string{{"a", "d"}, {"b", "c"}, {"c", "f"}, {"d", "e"}},
	)
	if got := dag.CountCrossings(g, Barycentric{}.OrderRows(g)); got != 0 {
		t.Errorf("crossings = %d, want 0", got)
	}
}

func TestBarycentric_Deterministic(t *testing.T) {
	ids := make([]string, 0, 30)
	var edges [][2]string
	for i := 0; i < 30; i++ {
		ids = append(ids, fmt.Sprintf("s%02d", i))
		if i >= 3 {
			edges = append(edges, [2]string{fmt.Sprintf("s%02d", (i*17)%11%i), ids[i]})
			edges = append(edges, [2]string{fmt.Sprintf("s%02d", i/2), ids[i]})
		}
	}

	first := Barycentric{}.OrderRows(layered(t, ids, edges))
	for i := 0; i < 10; i++ {
		if got := (Barycentric{}).OrderRows(layered(t, ids, edges)); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs:\n got  %v\n want %v", i, got, first)
		}
	}
}

func TestBarycentric_TiesKeepInputOrder(t *testing.T) {
	g := layered(t, []string{"c", "a", "b"}, nil)
	if got := (Barycentric{}).OrderRows(g)[0]; !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("row 0 = %v, want [c a b]", got)
	}
}

func TestBarycentric_Empty(t *testing.T) {
	if got := (Barycentric{}).OrderRows(dag.New()); len(got) != 0 {
		t.Errorf("OrderRows(empty) = %v, want empty", got)
	}
}
