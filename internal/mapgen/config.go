// Package mapgen generates hex-offset conquest maps: randomized links,
// holes, connectivity repair, player start cells and capacity boosts.
package mapgen

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions indicates a grid with no cells.
	ErrInvalidDimensions = errors.New("mapgen: rows and columns must be positive")
	// ErrInvalidChance indicates a percentage outside 0..100.
	ErrInvalidChance = errors.New("mapgen: chance must be between 0 and 100")
	// ErrInvalidConfig indicates any other out-of-range setting.
	ErrInvalidConfig = errors.New("mapgen: invalid configuration")
)

// Config holds map generation parameters. Chances are percentages.
type Config struct {
	Rows    int
	Columns int
	Players int

	HoleChance int // chance of each cell becoming a hole
	LinkChance int // chance of each eligible direction being linked

	DefaultCapacity   int
	AmplifiedCapacity int
	StartPower        int

	// AmplifyTable holds the boost chance for cells with 1..6 links.
	AmplifyTable [6]int

	SampleAttempts int // random draws before a cell lookup gives up
	RepairRetries  int // extra repair starts after an isolated one
}

// DefaultConfig returns the standard generation settings for a map.
func DefaultConfig(rows, columns, players int) Config {
	return Config{
		Rows:              rows,
		Columns:           columns,
		Players:           players,
		HoleChance:        15,
		LinkChance:        65,
		DefaultCapacity:   8,
		AmplifiedCapacity: 12,
		StartPower:        2,
		AmplifyTable:      [6]int{0, 10, 10, 5, 5, 5},
		SampleAttempts:    10,
		RepairRetries:     5,
	}
}

// Validate reports the first setting that cannot produce a map.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Columns <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Rows, c.Columns)
	}
	if !validChance(c.HoleChance) {
		return fmt.Errorf("%w: hole chance %d", ErrInvalidChance, c.HoleChance)
	}
	if !validChance(c.LinkChance) {
		return fmt.Errorf("%w: link chance %d", ErrInvalidChance, c.LinkChance)
	}
	for i, p := range c.AmplifyTable {
		if !validChance(p) {
			return fmt.Errorf("%w: amplify chance %d for %d links", ErrInvalidChance, p, i+1)
		}
	}
	switch {
	case c.Players < 0:
		return fmt.Errorf("%w: players %d", ErrInvalidConfig, c.Players)
	case c.DefaultCapacity <= 0:
		return fmt.Errorf("%w: default capacity %d", ErrInvalidConfig, c.DefaultCapacity)
	case c.AmplifiedCapacity <= 0:
		return fmt.Errorf("%w: amplified capacity %d", ErrInvalidConfig, c.AmplifiedCapacity)
	case c.StartPower < 0:
		return fmt.Errorf("%w: start power %d", ErrInvalidConfig, c.StartPower)
	case c.SampleAttempts <= 0:
		return fmt.Errorf("%w: sample attempts %d", ErrInvalidConfig, c.SampleAttempts)
	case c.RepairRetries < 0:
		return fmt.Errorf("%w: repair retries %d", ErrInvalidConfig, c.RepairRetries)
	}
	return nil
}

func validChance(p int) bool {
	return p >= 0 && p <= 100
}
