// Package wire encodes grids for clients. Each cell is the field sequence
// [owner, power, capacity, left, up-left, up-right, right, bottom-right,
// bottom-left]; compressed cells drop trailing zeros and clients pad them
// back to full width.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/talgya/hexconquest/internal/board"
)

// CellWidth is the number of fields in an uncompressed cell.
const CellWidth = 3 + board.NumDirections

var (
	// ErrCellTooLong indicates a cell sequence wider than CellWidth.
	ErrCellTooLong = errors.New("wire: cell has more than 9 fields")
	// ErrBadFlag indicates a link field other than 0 or 1.
	ErrBadFlag = errors.New("wire: link flag must be 0 or 1")
	// ErrNegative indicates a negative owner, power or capacity.
	ErrNegative = errors.New("wire: negative cell value")
	// ErrShape indicates rows of differing length or an empty grid.
	ErrShape = errors.New("wire: grid must be a non-empty rectangle")
)

// Fields returns the full nine-field sequence of a cell.
func Fields(c board.Cell) [CellWidth]int {
	f := [CellWidth]int{c.Owner, c.Power, c.Capacity}
	for i, l := range c.Links {
		if l {
			f[3+i] = 1
		}
	}
	return f
}

// Compress returns the cell fields with trailing zeros removed. A hole
// compresses to an empty, non-nil slice.
func Compress(c board.Cell) []int {
	f := Fields(c)
	n := CellWidth
	for n > 0 && f[n-1] == 0 {
		n--
	}
	out := make([]int, n)
	copy(out, f[:n])
	return out
}

// Expand right-pads a possibly compressed sequence to full width and
// decodes it.
func Expand(fields []int) (board.Cell, error) {
	if len(fields) > CellWidth {
		return board.Cell{}, fmt.Errorf("%w: %d", ErrCellTooLong, len(fields))
	}
	var f [CellWidth]int
	copy(f[:], fields)

	if f[0] < 0 || f[1] < 0 || f[2] < 0 {
		return board.Cell{}, fmt.Errorf("%w: %v", ErrNegative, fields)
	}
	c := board.Cell{Owner: f[0], Power: f[1], Capacity: f[2]}
	for i := range c.Links {
		switch f[3+i] {
		case 0:
		case 1:
			c.Links[i] = true
		default:
			return board.Cell{}, fmt.Errorf("%w: %v", ErrBadFlag, fields)
		}
	}
	return c, nil
}

// Encode converts a grid into rows of cell sequences.
func Encode(g *board.Grid, compress bool) [][][]int {
	rows := make([][][]int, g.Rows)
	for r := range rows {
		rows[r] = make([][]int, g.Columns)
	}
	for c := range g.Coords() {
		cell := *g.At(c)
		if compress {
			rows[c.Row][c.Col] = Compress(cell)
			continue
		}
		f := Fields(cell)
		rows[c.Row][c.Col] = f[:]
	}
	return rows
}

// Decode rebuilds a grid from encoded rows.
func Decode(rows [][][]int) (*board.Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrShape
	}
	g, err := board.NewGrid(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != g.Columns {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrShape, r, len(row), g.Columns)
		}
		for col, fields := range row {
			cell, err := Expand(fields)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", r, col, err)
			}
			*g.At(board.Coord{Row: r, Col: col}) = cell
		}
	}
	return g, nil
}

// Marshal encodes a grid as a JSON array of rows.
func Marshal(g *board.Grid, compress bool) ([]byte, error) {
	return json.Marshal(Encode(g, compress))
}

// Unmarshal parses a JSON array of rows into a grid.
func Unmarshal(data []byte) (*board.Grid, error) {
	var rows [][][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode map json: %w", err)
	}
	return Decode(rows)
}
