// Package board provides the hex-offset grid, cells, and neighbor math.
// Odd rows are shifted half a cell to the right of even rows.
package board

import "fmt"

// Coord addresses a cell by row and column.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Direction is one of the six link slots of a cell, clockwise from left.
type Direction uint8

const (
	Left        Direction = iota // (row, col-1)
	UpLeft                       // shifted by row parity
	UpRight                      // shifted by row parity
	Right                        // (row, col+1)
	BottomRight                  // shifted by row parity
	BottomLeft                   // shifted by row parity
)

// NumDirections is the number of link slots per cell.
const NumDirections = 6

// Directions lists every direction in link-slot order.
var Directions = [NumDirections]Direction{Left, UpLeft, UpRight, Right, BottomRight, BottomLeft}

var directionNames = [NumDirections]string{
	"left", "up-left", "up-right", "right", "bottom-right", "bottom-left",
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// Opposite returns the direction pointing back from the neighbor.
func (d Direction) Opposite() Direction {
	return (d + 3) % NumDirections
}

// Step returns the coordinate one step from c in direction d, ignoring
// grid bounds. Even rows reach up/down-left at col-1; odd rows reach
// up/down-right at col+1.
func Step(c Coord, d Direction) Coord {
	odd := c.Row%2 != 0
	switch d {
	case Left:
		return Coord{c.Row, c.Col - 1}
	case Right:
		return Coord{c.Row, c.Col + 1}
	case UpLeft:
		if odd {
			return Coord{c.Row - 1, c.Col}
		}
		return Coord{c.Row - 1, c.Col - 1}
	case UpRight:
		if odd {
			return Coord{c.Row - 1, c.Col + 1}
		}
		return Coord{c.Row - 1, c.Col}
	case BottomLeft:
		if odd {
			return Coord{c.Row + 1, c.Col}
		}
		return Coord{c.Row + 1, c.Col - 1}
	case BottomRight:
		if odd {
			return Coord{c.Row + 1, c.Col + 1}
		}
		return Coord{c.Row + 1, c.Col}
	}
	return c
}

// DirectionTo reports which direction leads from a to b, if b is one
// step away from a.
func DirectionTo(a, b Coord) (Direction, bool) {
	dr, dc := b.Row-a.Row, b.Col-a.Col
	if dr < -1 || dr > 1 || dc < -1 || dc > 1 {
		return 0, false
	}
	for _, d := range Directions {
		if Step(a, d) == b {
			return d, true
		}
	}
	return 0, false
}
