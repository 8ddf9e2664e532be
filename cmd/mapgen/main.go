// Command mapgen generates hex conquest maps from the command line.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mapgen",
		Short:        "Hex conquest map generator",
		SilenceUsage: true,
	}
	root.AddCommand(newGenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
