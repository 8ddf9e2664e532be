package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/talgya/hexconquest/internal/board"
	"github.com/talgya/hexconquest/internal/config"
	"github.com/talgya/hexconquest/internal/entropy"
	"github.com/talgya/hexconquest/internal/mapgen"
	"github.com/talgya/hexconquest/internal/wire"
)

type genOptions struct {
	size       string
	players    int
	seed       int64
	raw        bool
	audit      bool
	configPath string
	outputFile string
	verbose    bool
}

func newGenCmd() *cobra.Command {
	var opts genOptions

	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate one map",
		Long: `Generate one hex conquest map and print its JSON encoding.

Examples:
  mapgen gen --size m --players 3
  mapgen gen -s l -p 4 --seed 42 --audit
  mapgen gen --raw -o map.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, opts)
		},
	}

	genCmd.Flags().StringVarP(&opts.size, "size", "s", "m", "Board size code (s, m, l or a configured size)")
	genCmd.Flags().IntVarP(&opts.players, "players", "p", 2, "Number of players 2-4")
	genCmd.Flags().Int64Var(&opts.seed, "seed", 0, "Seed for a reproducible map; 0 picks a crypto-random seed")
	genCmd.Flags().BoolVar(&opts.raw, "raw", false, "Emit every cell at full width instead of dropping trailing zeros")
	genCmd.Flags().BoolVar(&opts.audit, "audit", false, "Fail if the map breaks the hole, connectivity or owner rules")
	genCmd.Flags().StringVar(&opts.configPath, "config", "./configs/mapserver.yaml", "Config file with generation tuning; missing means defaults")
	genCmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Write the map to a file instead of stdout")
	genCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log generation stages to stderr")

	return genCmd
}

func runGen(cmd *cobra.Command, opts genOptions) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	dims, ok := cfg.Generation.Sizes.Lookup(opts.size)
	if !ok {
		return fmt.Errorf("unknown size %q", opts.size)
	}
	if !mapgen.ValidPlayers(opts.players) {
		return fmt.Errorf("players must be between %d and %d, got %d", mapgen.MinPlayers, mapgen.MaxPlayers, opts.players)
	}

	seed := opts.seed
	if seed == 0 {
		seed = entropy.RandomSeed()
	}
	src := entropy.NewSeeded(seed)

	grid, report, err := mapgen.Generate(cfg.MapConfig(dims, opts.players), src)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if opts.audit {
		if err := mapgen.Audit(grid, opts.players); err != nil {
			return fmt.Errorf("audit failed for map %s: %w", report.ID, err)
		}
	}

	compress := cfg.CompressOutput() && !opts.raw

	var data []byte
	if opts.outputFile != "" {
		if data, err = encodeMap(grid, compress, false); err != nil {
			return err
		}
		if err := writeFile(opts.outputFile, data); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		if data, err = encodeMap(grid, compress, isTerminal(out)); err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("failed to write map: %w", err)
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "map %s (seed %d): %d×%d, %d/%d players seated, %d holes, repair %s, %s in %s\n",
		report.ID, seed, report.Rows, report.Columns, report.Seated, report.Players,
		report.Holes, report.Repair, humanize.Bytes(uint64(len(data))), report.Duration)
	return nil
}

// encodeMap renders the map as compact JSON, or one row per line when a
// person is reading it.
func encodeMap(g *board.Grid, compress, pretty bool) ([]byte, error) {
	if !pretty {
		data, err := wire.Marshal(g, compress)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, row := range wire.Encode(g, compress) {
		line, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
		buf.WriteString("  ")
		buf.Write(line)
		if i < g.Rows-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}

// writeFile writes the map to path, returning write and close errors.
func writeFile(path string, data []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write map: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
