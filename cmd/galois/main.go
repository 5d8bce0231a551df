package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/galois/cmd/galois/commands"
)

var rootCmd = &cobra.Command{
	Use:   "galois",
	Short: "galois - Formal Concept Analysis",
	Long: `galois - enumerate the formal concepts of a cross table.

A cross table relates objects (rows) to attributes (columns). galois finds
every maximal group of objects sharing a set of attributes with the InClose
algorithm and orders them into a concept lattice.

Available commands:
  generate - Enumerate the concepts of a context
  reduce   - Collapse duplicate objects and attributes
  lattice  - Print the covering relation of the concept lattice
  version  - Show version information

Examples:
  galois generate animals.csv                   # List concepts
  galois generate animals.csv -a parallel -w 8  # Partitioned search
  galois generate animals.yaml -o json > out.json
  galois lattice animals.toml --reduce`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commands.LoadConfig(cmd)
		if err != nil {
			return err
		}
		if err := commands.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		commands.HookSignals()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		commands.UnhookSignals()
		_ = commands.Logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./galois.toml or ./galois.yaml)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.ReduceCmd)
	rootCmd.AddCommand(commands.LatticeCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
