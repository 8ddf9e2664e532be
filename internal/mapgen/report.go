package mapgen

import (
	"fmt"
	"time"
)

// RepairOutcome records how the connectivity repair stage ended.
type RepairOutcome uint8

const (
	RepairOK       RepairOutcome = iota // playable area is one component
	RepairNoStart                       // no usable start cell was sampled
	RepairIsolated                      // every sampled start had no linked neighbor
)

var repairNames = [...]string{"ok", "no_start", "isolated"}

func (r RepairOutcome) String() string {
	if int(r) < len(repairNames) {
		return repairNames[r]
	}
	return fmt.Sprintf("RepairOutcome(%d)", r)
}

// MarshalText encodes the outcome by name.
func (r RepairOutcome) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Report summarizes one generation run.
type Report struct {
	ID      string `json:"id"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Players int    `json:"players"`

	Holes      int           `json:"holes"`       // punched by the hole stage
	Pruned     int           `json:"pruned"`      // removed by connectivity repair
	LinksAdded int           `json:"links_added"` // set by connectivity repair
	Repair     RepairOutcome `json:"repair"`
	Seated     int           `json:"seated"`
	Amplified  int           `json:"amplified"`

	FailedDraws int           `json:"failed_draws"`
	Duration    time.Duration `json:"duration_ns"`
}
