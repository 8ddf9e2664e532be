package mapgen

import (
	"log/slog"

	"github.com/talgya/hexconquest/internal/board"
)

// seatPlayers gives each player, in index order, one random unowned cell
// with the starting power. A player whose sample fails is left without a
// start cell. Start cells may end up next to each other.
func (g *Generator) seatPlayers() {
	for p := 1; p <= g.cfg.Players; p++ {
		c, ok := g.sample(unowned)
		if !ok {
			slog.Debug("player not seated", "id", g.report.ID, "player", p)
			continue
		}
		cell := g.grid.At(c)
		cell.Owner = p
		cell.Power = g.cfg.StartPower
		g.report.Seated++
	}
}

// amplify raises the capacity of well-linked cells. The boost chance is
// looked up by link count; a cell with no links uses the first entry.
func (g *Generator) amplify() {
	for c := range g.grid.Coords() {
		cell := g.grid.At(c)
		if cell.IsHole() {
			continue
		}
		if g.chance(g.cfg.AmplifyTable[amplifyIndex(LinkCount(g.grid, c))]) {
			cell.Capacity = g.cfg.AmplifiedCapacity
			g.report.Amplified++
		}
	}
}

func amplifyIndex(links int) int {
	return min(max(links-1, 0), board.NumDirections-1)
}
