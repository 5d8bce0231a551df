package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/zoobzio/galois"
	"github.com/zoobzio/galois/contextio"
)

// ReduceCmd prints the reduced form of a context file.
var ReduceCmd = &cobra.Command{
	Use:   "reduce FILE",
	Short: "Collapse duplicate objects and attributes",
	Long: `Load a context from FILE and print it with every duplicate row and column
collapsed onto its first occurrence. The result has the same concept lattice
up to the collapsed names.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReduce(cmd.Context(), args[0], current, cmd.OutOrStdout())
	},
}

func init() {
	ReduceCmd.Flags().StringP("output", "o", "csv", "Output: csv, json, toml or yaml")
}

func runReduce(ctx context.Context, path string, cfg *Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fc, err := contextio.LoadFile(ctx, path)
	if err != nil {
		return err
	}
	reduced, err := galois.Reduce(ctx, fc)
	if err != nil {
		return err
	}

	Logger.Infow("reduced",
		"context", reduced.Name,
		"removed_objects", reduced.Reduction().RemovedObjects(),
		"removed_attributes", reduced.Reduction().RemovedAttributes(),
	)

	output := cfg.Output
	if output == "" || output == "text" {
		output = "csv"
	}
	format, err := contextio.ParseFormat(output)
	if err != nil {
		return err
	}
	return contextio.Write(out, format, reduced)
}
