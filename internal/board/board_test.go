package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexconquest/internal/board"
)

func TestNewGrid_Errors(t *testing.T) {
	cases := []struct {
		name       string
		rows, cols int
	}{
		{"ZeroRows", 0, 3},
		{"ZeroCols", 3, 0},
		{"Negative", -1, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := board.NewGrid(tc.rows, tc.cols)
			assert.ErrorIs(t, err, board.ErrEmptyGrid)
		})
	}
}

// TestNeighbor_ParityOffsets checks the staggered offsets on a 3-row grid.
func TestNeighbor_ParityOffsets(t *testing.T) {
	g, err := board.NewGrid(3, 3)
	require.NoError(t, err)

	cases := []struct {
		name string
		from board.Coord
		dir  board.Direction
		want board.Coord
	}{
		{"OddUpLeft", board.Coord{Row: 1, Col: 1}, board.UpLeft, board.Coord{Row: 0, Col: 1}},
		{"OddUpRight", board.Coord{Row: 1, Col: 1}, board.UpRight, board.Coord{Row: 0, Col: 2}},
		{"OddBottomLeft", board.Coord{Row: 1, Col: 1}, board.BottomLeft, board.Coord{Row: 2, Col: 1}},
		{"OddBottomRight", board.Coord{Row: 1, Col: 1}, board.BottomRight, board.Coord{Row: 2, Col: 2}},
		{"EvenUpLeft", board.Coord{Row: 2, Col: 1}, board.UpLeft, board.Coord{Row: 1, Col: 0}},
		{"EvenUpRight", board.Coord{Row: 2, Col: 1}, board.UpRight, board.Coord{Row: 1, Col: 1}},
		{"EvenBottomLeft", board.Coord{Row: 0, Col: 1}, board.BottomLeft, board.Coord{Row: 1, Col: 0}},
		{"EvenBottomRight", board.Coord{Row: 0, Col: 1}, board.BottomRight, board.Coord{Row: 1, Col: 1}},
		{"Left", board.Coord{Row: 1, Col: 1}, board.Left, board.Coord{Row: 1, Col: 0}},
		{"Right", board.Coord{Row: 2, Col: 1}, board.Right, board.Coord{Row: 2, Col: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := g.Neighbor(tc.from, tc.dir)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNeighbor_OutOfBounds(t *testing.T) {
	g, err := board.NewGrid(3, 3)
	require.NoError(t, err)

	_, ok := g.Neighbor(board.Coord{Row: 0, Col: 0}, board.UpLeft)
	assert.False(t, ok)
	_, ok = g.Neighbor(board.Coord{Row: 0, Col: 0}, board.BottomLeft)
	assert.False(t, ok, "even row col 0 has no bottom-left")
	_, ok = g.Neighbor(board.Coord{Row: 1, Col: 0}, board.UpLeft)
	assert.True(t, ok, "odd row col 0 still reaches up-left")
	_, ok = g.Neighbor(board.Coord{Row: 1, Col: 2}, board.UpRight)
	assert.False(t, ok)
}

func TestOpposite_RoundTrips(t *testing.T) {
	g, err := board.NewGrid(4, 4)
	require.NoError(t, err)

	for c := range g.Coords() {
		for _, d := range board.Directions {
			n, ok := g.Neighbor(c, d)
			if !ok {
				continue
			}
			back, ok := g.Neighbor(n, d.Opposite())
			require.True(t, ok, "%v %v", c, d)
			assert.Equal(t, c, back, "%v -> %v -> back", c, d)
		}
	}
}

func TestDirectionTo(t *testing.T) {
	d, ok := board.DirectionTo(board.Coord{Row: 1, Col: 1}, board.Coord{Row: 0, Col: 2})
	require.True(t, ok)
	assert.Equal(t, board.UpRight, d)

	d, ok = board.DirectionTo(board.Coord{Row: 2, Col: 1}, board.Coord{Row: 1, Col: 0})
	require.True(t, ok)
	assert.Equal(t, board.UpLeft, d)

	_, ok = board.DirectionTo(board.Coord{Row: 0, Col: 0}, board.Coord{Row: 0, Col: 2})
	assert.False(t, ok)
	_, ok = board.DirectionTo(board.Coord{Row: 0, Col: 1}, board.Coord{Row: 1, Col: 2})
	assert.False(t, ok, "diagonal outside the hex neighborhood")
	_, ok = board.DirectionTo(board.Coord{Row: 0, Col: 0}, board.Coord{Row: 0, Col: 0})
	assert.False(t, ok)
}

func TestCoords_RowMajorAndRestartable(t *testing.T) {
	g, err := board.NewGrid(2, 3)
	require.NoError(t, err)

	var first []board.Coord
	for c := range g.Coords() {
		first = append(first, c)
	}
	require.Len(t, first, 6)
	for i, c := range first {
		assert.Equal(t, g.CoordOf(i), c)
		assert.Equal(t, i, g.Index(c))
	}

	var second []board.Coord
	for c := range g.Coords() {
		second = append(second, c)
		if len(second) == 2 {
			break
		}
	}
	assert.Equal(t, first[:2], second)
}

func TestCell_Clear(t *testing.T) {
	c := board.Cell{Owner: 2, Power: 2, Capacity: 8}
	c.Links[board.Right] = true
	assert.False(t, c.IsHole())
	assert.Equal(t, 1, c.OutgoingLinks())

	c.Clear()
	assert.True(t, c.IsHole())
	assert.Equal(t, board.Cell{}, c)
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "bottom-right", board.BottomRight.String())
	assert.Equal(t, "Direction(9)", board.Direction(9).String())
}
