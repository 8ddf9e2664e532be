package mapgen

import "github.com/talgya/hexconquest/internal/board"

// buildGrid gives every cell the default capacity and random links to its
// in-bounds neighbors. A cell that drew no links gets one random eligible
// link so it never starts out isolated.
func (g *Generator) buildGrid() {
	eligible := make([]board.Direction, 0, board.NumDirections)

	for c := range g.grid.Coords() {
		cell := g.grid.At(c)
		*cell = board.Cell{Capacity: g.cfg.DefaultCapacity}

		eligible = eligible[:0]
		for _, d := range board.Directions {
			if _, ok := g.grid.Neighbor(c, d); !ok {
				continue
			}
			eligible = append(eligible, d)
			cell.Links[d] = g.chance(g.cfg.LinkChance)
		}

		if len(eligible) == 0 || cell.OutgoingLinks() > 0 {
			continue
		}
		pick := eligible[0]
		if i, err := g.src.Intn(len(eligible)); err == nil {
			pick = eligible[i]
		} else {
			g.report.FailedDraws++
		}
		cell.Links[pick] = true
	}
}

// punchHoles gives each cell, in row-major order, an independent chance
// of becoming a hole.
func (g *Generator) punchHoles() {
	for c := range g.grid.Coords() {
		if !g.chance(g.cfg.HoleChance) {
			continue
		}
		g.punch(c)
		g.report.Holes++
	}
}
