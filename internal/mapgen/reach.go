package mapgen

import "github.com/talgya/hexconquest/internal/board"

// Mode selects which neighbors count as adjacent during a search.
type Mode uint8

const (
	// Linked treats two cells as adjacent when either one links to the
	// other. Repair links are one-sided, so both directions must count.
	Linked Mode = iota
	// Candidate treats every non-hole neighbor as adjacent, ignoring links.
	Candidate
)

// Adjacent returns the non-hole neighbors of c under mode, in direction
// order.
func Adjacent(g *board.Grid, c board.Coord, mode Mode) []board.Coord {
	cell := g.At(c)
	if cell == nil {
		return nil
	}
	var out []board.Coord
	for _, d := range board.Directions {
		n, ok := g.Neighbor(c, d)
		if !ok {
			continue
		}
		other := g.At(n)
		if other.IsHole() {
			continue
		}
		if mode == Linked && !cell.Links[d] && !other.Links[d.Opposite()] {
			continue
		}
		out = append(out, n)
	}
	return out
}

// LinkCount returns how many directions of c are linked under the
// union rule, 0 to 6.
func LinkCount(g *board.Grid, c board.Coord) int {
	if cell := g.At(c); cell == nil || cell.IsHole() {
		return 0
	}
	return len(Adjacent(g, c, Linked))
}

// Reachable marks every cell reachable from start, indexed like
// g.Cells. Holes are pre-marked so they never count as unreached.
// ok is false when start has no adjacent cell at all, meaning there is
// nothing to traverse.
//
// Time: O(cells + links). Memory: O(cells).
func Reachable(g *board.Grid, start board.Coord, mode Mode) (visited []bool, ok bool) {
	visited = make([]bool, len(g.Cells))
	for i := range g.Cells {
		visited[i] = g.Cells[i].IsHole()
	}
	if !g.InBounds(start) || g.At(start).IsHole() {
		return visited, false
	}
	visited[g.Index(start)] = true

	queue := Adjacent(g, start, mode)
	if len(queue) == 0 {
		return visited, false
	}
	for _, n := range queue {
		visited[g.Index(n)] = true
	}

	for qi := 0; qi < len(queue); qi++ {
		for _, n := range Adjacent(g, queue[qi], mode) {
			i := g.Index(n)
			if visited[i] {
				continue
			}
			visited[i] = true
			queue = append(queue, n)
		}
	}
	return visited, true
}
