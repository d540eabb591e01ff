package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the MacroRun CLI
var rootCmd = &cobra.Command{
	Use:   "macrorun",
	Short: "MacroRun country ETF macro allocator",
	Long: `MacroRun ranks a universe of country ETFs by blending equity trend
momentum, FX momentum and manually curated macro indicators into a single
cross-sectional score, then publishes the top-K most favorable countries.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("MacroRun country ETF macro allocator")
		fmt.Println("Use 'macrorun rank' to run a ranking over the configured universe")
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
