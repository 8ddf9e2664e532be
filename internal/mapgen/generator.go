package mapgen

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hexconquest/internal/board"
	"github.com/talgya/hexconquest/internal/entropy"
)

// Generator is a single map generation session. It owns its grid and is
// discarded once the map has been encoded.
type Generator struct {
	cfg  Config
	src  entropy.Source
	grid *board.Grid

	report Report
	done   bool
}

// New creates a generation session. A nil source draws from crypto/rand.
func New(cfg Config, src entropy.Source) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := board.NewGrid(cfg.Rows, cfg.Columns)
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = entropy.Crypto{}
	}
	return &Generator{
		cfg:  cfg,
		src:  src,
		grid: grid,
		report: Report{
			ID:      uuid.NewString(),
			Rows:    cfg.Rows,
			Columns: cfg.Columns,
			Players: cfg.Players,
		},
	}, nil
}

// Generate runs the full pipeline and returns the finished grid. It
// always returns a grid; later calls return the same result.
func (g *Generator) Generate() (*board.Grid, Report) {
	if g.done {
		return g.grid, g.report
	}
	start := time.Now()

	g.buildGrid()
	g.punchHoles()
	slog.Debug("holes punched", "id", g.report.ID, "holes", g.report.Holes)

	g.report.Repair = g.repair()
	if g.report.Repair != RepairOK {
		slog.Warn("connectivity repair skipped", "id", g.report.ID, "reason", g.report.Repair)
	} else {
		slog.Debug("connectivity repaired", "id", g.report.ID,
			"pruned", g.report.Pruned, "links_added", g.report.LinksAdded)
	}

	g.seatPlayers()
	slog.Debug("players seated", "id", g.report.ID, "seated", g.report.Seated, "players", g.cfg.Players)

	g.amplify()
	slog.Debug("capacity amplified", "id", g.report.ID, "cells", g.report.Amplified)

	g.report.Duration = time.Since(start)
	g.done = true
	return g.grid, g.report
}

// Generate is a shorthand for New followed by Generator.Generate.
func Generate(cfg Config, src entropy.Source) (*board.Grid, Report, error) {
	gen, err := New(cfg, src)
	if err != nil {
		return nil, Report{}, err
	}
	grid, report := gen.Generate()
	return grid, report, nil
}

// chance succeeds with the given percentage. A failed draw counts as a miss.
func (g *Generator) chance(percent int) bool {
	v, err := g.src.Intn(100)
	if err != nil {
		g.report.FailedDraws++
		return false
	}
	return v < percent
}

// punch turns c into a hole and clears every neighbor link aimed at it.
func (g *Generator) punch(c board.Coord) {
	g.grid.At(c).Clear()
	for _, d := range board.Directions {
		n, ok := g.grid.Neighbor(c, d)
		if !ok {
			continue
		}
		g.grid.At(n).Links[d.Opposite()] = false
	}
}
