package board

import (
	"errors"
	"fmt"
	"iter"
)

// ErrEmptyGrid is returned when a grid would have no cells.
var ErrEmptyGrid = errors.New("board: grid must have at least one row and one column")

// Cell is a single playable (or punched-out) position on the board.
type Cell struct {
	Owner    int                 `json:"owner"`    // 0 = unowned, otherwise player index
	Power    int                 `json:"power"`    // current power
	Capacity int                 `json:"capacity"` // max power; 0 marks a hole
	Links    [NumDirections]bool `json:"links"`    // outgoing link per direction
}

// IsHole reports whether the cell has been removed from play.
func (c *Cell) IsHole() bool {
	return c.Capacity == 0
}

// Clear turns the cell into a hole.
func (c *Cell) Clear() {
	*c = Cell{}
}

// OutgoingLinks counts the link flags set on this cell alone.
func (c *Cell) OutgoingLinks() int {
	n := 0
	for _, l := range c.Links {
		if l {
			n++
		}
	}
	return n
}

// Grid is a row-major arena of cells. Dimensions never change after
// construction; callers mutate cells through At.
type Grid struct {
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Cells   []Cell `json:"-"`
}

// NewGrid allocates a rows×columns grid of zero cells.
func NewGrid(rows, columns int) (*Grid, error) {
	if rows <= 0 || columns <= 0 {
		return nil, ErrEmptyGrid
	}
	return &Grid{
		Rows:    rows,
		Columns: columns,
		Cells:   make([]Cell, rows*columns),
	}, nil
}

// InBounds returns true if the coordinate lies inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Columns
}

// Index maps a coordinate to its position in Cells.
func (g *Grid) Index(c Coord) int {
	return c.Row*g.Columns + c.Col
}

// CoordOf converts an index in Cells back to a coordinate.
func (g *Grid) CoordOf(idx int) Coord {
	return Coord{Row: idx / g.Columns, Col: idx % g.Columns}
}

// At returns the cell at c, or nil if c is out of bounds.
func (g *Grid) At(c Coord) *Cell {
	if !g.InBounds(c) {
		return nil
	}
	return &g.Cells[g.Index(c)]
}

// Neighbor returns the in-bounds neighbor of c in direction d.
func (g *Grid) Neighbor(c Coord, d Direction) (Coord, bool) {
	n := Step(c, d)
	return n, g.InBounds(n)
}

// Coords yields every coordinate once in row-major order. Each call
// starts a fresh sequence.
func (g *Grid) Coords() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for row := 0; row < g.Rows; row++ {
			for col := 0; col < g.Columns; col++ {
				if !yield(Coord{Row: row, Col: col}) {
					return
				}
			}
		}
	}
}

// Holes counts the cells with zero capacity.
func (g *Grid) Holes() int {
	n := 0
	for i := range g.Cells {
		if g.Cells[i].IsHole() {
			n++
		}
	}
	return n
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, holes=%d)", g.Rows, g.Columns, g.Holes())
}
