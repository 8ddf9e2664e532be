package mapgen_test

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/hexconquest/internal/entropy"
	"github.com/talgya/hexconquest/internal/mapgen"
	"github.com/talgya/hexconquest/internal/wire"
)

// ExampleGenerate builds a fully linked 2×2 board with no holes and
// prints its compressed encoding. Odd rows sit half a cell to the right,
// so (1,0) links up-left and up-right while (0,0) links right and
// bottom-right.
func ExampleGenerate() {
	cfg := mapgen.DefaultConfig(2, 2, 0)
	cfg.HoleChance = 0
	cfg.LinkChance = 100
	cfg.AmplifyTable = [6]int{}

	grid, report, err := mapgen.Generate(cfg, entropy.NewSeeded(1))
	if err != nil {
		fmt.Println(err)
		return
	}
	out, _ := json.Marshal(wire.Encode(grid, true))
	fmt.Println(string(out))
	fmt.Println("repair:", report.Repair)

	// Output:
	// [[[0,0,8,0,0,0,1,1],[0,0,8,1,0,0,0,1,1]],[[0,0,8,0,1,1,1],[0,0,8,1,1]]]
	// repair: ok
}
