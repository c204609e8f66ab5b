package space

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dooders/components"
)

func newEntities(n int) []ecs.Entity {
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Position](world)
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = mapper.NewEntity(&components.Position{})
	}
	return out
}

func TestWrap(t *testing.T) {
	g := NewGrid(10, 5)
	tests := []struct {
		x, y int
		want components.Position
	}{
		{0, 0, components.Position{X: 0, Y: 0}},
		{-1, 0, components.Position{X: 9, Y: 0}},
		{10, 5, components.Position{X: 0, Y: 0}},
		{3, -1, components.Position{X: 3, Y: 4}},
		{-11, 12, components.Position{X: 9, Y: 2}},
	}
	for _, tt := range tests {
		if got := g.Wrap(tt.x, tt.y); got != tt.want {
			t.Errorf("Wrap(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPlaceRemoveMultiOccupancy(t *testing.T) {
	g := NewGrid(4, 4)
	es := newEntities(3)
	cell := components.Position{X: 1, Y: 2}

	for _, e := range es {
		g.Place(e, cell)
	}
	if got := g.CellContents(cell); len(got) != 3 {
		t.Fatalf("cell holds %d entities, want 3", len(got))
	}

	if !g.Remove(es[1], cell) {
		t.Fatal("Remove returned false for a placed entity")
	}
	if g.Remove(es[1], cell) {
		t.Error("second Remove should report false")
	}

	got := g.CellContents(cell)
	if len(got) != 2 || got[0] != es[0] || got[1] != es[2] {
		t.Errorf("contents after removal = %v, want [%v %v]", got, es[0], es[2])
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}

func TestMoveWrapsAround(t *testing.T) {
	g := NewGrid(3, 3)
	e := newEntities(1)[0]
	from := components.Position{X: 2, Y: 2}
	g.Place(e, from)

	to := g.Move(e, from, components.Position{X: 3, Y: -1})
	want := components.Position{X: 0, Y: 2}
	if to != want {
		t.Fatalf("Move landed on %v, want %v", to, want)
	}
	if !g.IsCellEmpty(from) {
		t.Error("origin cell should be empty")
	}
	if got := g.CellContents(want); len(got) != 1 || got[0] != e {
		t.Errorf("destination contents = %v", got)
	}
}

func TestCellContentsIsCopy(t *testing.T) {
	g := NewGrid(2, 2)
	es := newEntities(2)
	cell := components.Position{X: 0, Y: 0}
	g.Place(es[0], cell)
	g.Place(es[1], cell)

	contents := g.CellContents(cell)
	g.Remove(es[0], cell)
	if contents[0] != es[0] || contents[1] != es[1] {
		t.Error("earlier CellContents result changed after removal")
	}
}

func TestNeighborhood(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		moore bool
		wantN int
	}{
		{"moore large", 10, 10, true, 8},
		{"von neumann large", 10, 10, false, 4},
		{"moore 2x2", 2, 2, true, 3},
		{"moore 1x1", 1, 1, true, 1},
		{"von neumann 1x3", 1, 3, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(tt.w, tt.h)
			got := g.Neighborhood(components.Position{X: 0, Y: 0}, tt.moore)
			if len(got) != tt.wantN {
				t.Errorf("neighborhood size = %d (%v), want %d", len(got), got, tt.wantN)
			}
			seen := make(map[components.Position]bool)
			for _, p := range got {
				if seen[p] {
					t.Errorf("duplicate neighbour %v", p)
				}
				seen[p] = true
				if p.X < 0 || p.X >= tt.w || p.Y < 0 || p.Y >= tt.h {
					t.Errorf("neighbour %v outside grid", p)
				}
			}
		})
	}
}

func TestCellsColumnMajor(t *testing.T) {
	g := NewGrid(2, 3)
	var got []components.Position
	g.Cells(func(pos components.Position) { got = append(got, pos) })

	want := []components.Position{
		{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2},
		{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("visited %d cells, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %v, want %v", i, got[i], want[i])
		}
	}
}
