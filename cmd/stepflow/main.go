// Command stepflow evaluates token programs defined in YAML files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stepflow",
		Short: "Evaluate step-token programs",
		Long: `stepflow loads token programs from YAML files and evaluates them
with the Process/Step engine. Program output tokens print one per line.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd(), newCheckCmd(), newWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
