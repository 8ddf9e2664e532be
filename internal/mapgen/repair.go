package mapgen

import "github.com/talgya/hexconquest/internal/board"

// sample draws up to cfg.SampleAttempts random coordinates and returns
// the first non-hole cell accepted by accept. A failed draw uses up an
// attempt. The returned coordinate is a handle into g.grid.
func (g *Generator) sample(accept func(*board.Cell) bool) (board.Coord, bool) {
	for i := 0; i < g.cfg.SampleAttempts; i++ {
		row, err := g.src.Intn(g.grid.Rows)
		if err != nil {
			g.report.FailedDraws++
			continue
		}
		col, err := g.src.Intn(g.grid.Columns)
		if err != nil {
			g.report.FailedDraws++
			continue
		}
		c := board.Coord{Row: row, Col: col}
		cell := g.grid.At(c)
		if cell.IsHole() || !accept(cell) {
			continue
		}
		return c, true
	}
	return board.Coord{}, false
}

func unowned(c *board.Cell) bool {
	return c.Owner == 0
}

// linkCells sets the single link bit on from that points at to. The bit
// on to is left alone. Returns false if the cells are not neighbors.
func linkCells(g *board.Grid, from, to board.Coord) bool {
	if !g.InBounds(from) || !g.InBounds(to) {
		return false
	}
	d, ok := board.DirectionTo(from, to)
	if !ok {
		return false
	}
	g.At(from).Links[d] = true
	return true
}

// repair makes the playable area a single linked component.
//
//  1. Pick a start cell that has at least one linked neighbor, retrying
//     a bounded number of times.
//  2. Every unreached cell links to all of its non-hole neighbors, or is
//     pruned if it has none.
//  3. Anything still unreached from the same start is pruned.
//  4. Reached cells without an outgoing link get one toward a linked
//     neighbor.
//
// The grid is untouched unless a usable start is found.
func (g *Generator) repair() RepairOutcome {
	start, ok := g.sample(unowned)
	if !ok {
		return RepairNoStart
	}
	visited, ok := Reachable(g.grid, start, Linked)
	for attempt := 0; !ok && attempt < g.cfg.RepairRetries; attempt++ {
		if start, ok = g.sample(unowned); !ok {
			return RepairNoStart
		}
		visited, ok = Reachable(g.grid, start, Linked)
	}
	if !ok {
		return RepairIsolated
	}

	for c := range g.grid.Coords() {
		if visited[g.grid.Index(c)] || g.grid.At(c).IsHole() {
			continue
		}
		candidates := Adjacent(g.grid, c, Candidate)
		if len(candidates) == 0 {
			g.prune(c)
			continue
		}
		cell := g.grid.At(c)
		before := cell.OutgoingLinks()
		for _, n := range candidates {
			linkCells(g.grid, c, n)
		}
		g.report.LinksAdded += cell.OutgoingLinks() - before
	}

	visited, _ = Reachable(g.grid, start, Linked)
	for c := range g.grid.Coords() {
		if !visited[g.grid.Index(c)] {
			g.prune(c)
		}
	}

	g.anchorLinks()
	return RepairOK
}

func (g *Generator) prune(c board.Coord) {
	g.punch(c)
	g.report.Pruned++
}

// anchorLinks mirrors one incoming link on every non-hole cell that has
// no outgoing link of its own, so only holes serialize without links.
func (g *Generator) anchorLinks() {
	for c := range g.grid.Coords() {
		cell := g.grid.At(c)
		if cell.IsHole() || cell.OutgoingLinks() > 0 {
			continue
		}
		linked := Adjacent(g.grid, c, Linked)
		if len(linked) == 0 {
			continue
		}
		if linkCells(g.grid, c, linked[0]) {
			g.report.LinksAdded++
		}
	}
}
