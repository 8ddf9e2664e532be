package mapgen

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hexconquest/internal/board"
)

var (
	// ErrDirtyHole indicates a hole that still carries owner, power or links.
	ErrDirtyHole = errors.New("mapgen: hole is not blank")
	// ErrDisconnected indicates non-hole cells in more than one component.
	ErrDisconnected = errors.New("mapgen: playable area is disconnected")
	// ErrDuplicateOwner indicates a player seated on more than one cell.
	ErrDuplicateOwner = errors.New("mapgen: player owns more than one cell")
	// ErrUnknownOwner indicates an owner outside 1..players.
	ErrUnknownOwner = errors.New("mapgen: owner out of range")
)

// Audit checks a generated grid for blank holes, a single connected
// playable area, and one start cell per player. All violations are
// returned joined; nil means the grid is sound.
func Audit(g *board.Grid, players int) error {
	var errs []error
	owners := mapset.New[int]()
	start, playable := board.Coord{}, 0

	for c := range g.Coords() {
		cell := g.At(c)
		if cell.IsHole() {
			if cell.Owner != 0 || cell.Power != 0 || cell.OutgoingLinks() != 0 {
				errs = append(errs, fmt.Errorf("%w at %v", ErrDirtyHole, c))
			}
			continue
		}
		if playable == 0 {
			start = c
		}
		playable++

		if cell.Owner == 0 {
			continue
		}
		if cell.Owner < 0 || cell.Owner > players {
			errs = append(errs, fmt.Errorf("%w: %d at %v", ErrUnknownOwner, cell.Owner, c))
		}
		if owners.Has(cell.Owner) {
			errs = append(errs, fmt.Errorf("%w: player %d at %v", ErrDuplicateOwner, cell.Owner, c))
		}
		owners.Put(cell.Owner)
	}

	if playable > 1 {
		visited, _ := Reachable(g, start, Linked)
		unreached := 0
		for i, v := range visited {
			if !v && !g.Cells[i].IsHole() {
				unreached++
			}
		}
		if unreached > 0 {
			errs = append(errs, fmt.Errorf("%w: %d of %d cells unreachable from %v",
				ErrDisconnected, unreached, playable, start))
		}
	}

	return errors.Join(errs...)
}
