package geometry

import "testing"

func TestDefaultRowCol(t *testing.T) {
	g := Default()
	if g.NumVirtual() != 12 {
		t.Fatalf("expected 12 virtual antennas, got %d", g.NumVirtual())
	}
	cases := []struct {
		v        int
		row, col int
	}{
		{0, 0, 0},
		{3, 0, 3},
		{4, 1, 0},
		{11, 2, 3},
	}
	for _, c := range cases {
		row, col := g.RowCol(c.v)
		if row != c.row || col != c.col {
			t.Errorf("RowCol(%d) = (%d,%d), want (%d,%d)", c.v, row, col, c.row, c.col)
		}
	}
}
