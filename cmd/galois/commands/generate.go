package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Postgres driver for --dsn
	"github.com/spf13/cobra"
	"github.com/zoobzio/galois"
	"github.com/zoobzio/galois/contextio"
	"github.com/zoobzio/pipz"
)

// GenerateCmd enumerates the concepts of a context file.
var GenerateCmd = &cobra.Command{
	Use:   "generate FILE",
	Short: "Enumerate the formal concepts of a context",
	Long: `Load a context from FILE (.csv, .json, .toml, .yaml), optionally reduce it,
enumerate its formal concepts and print them.

With --output text (default) concepts are listed one per line. With json,
yaml or msgpack a snapshot of the generated context is written instead, which
can be read back with the contextio package. With --dsn the context and its
concepts are also saved to Postgres.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), args[0], current, cmd.OutOrStdout())
	},
}

func init() {
	GenerateCmd.Flags().StringP("algorithm", "a", galois.DefaultAlgorithm, "Generator: inclose or parallel")
	GenerateCmd.Flags().IntP("workers", "w", 0, "Concurrent subtrees for the parallel generator (0 = GOMAXPROCS)")
	GenerateCmd.Flags().Bool("reduce", false, "Collapse duplicate objects and attributes first")
	GenerateCmd.Flags().Bool("verify", false, "Check the closure law and uniqueness of every concept")
	GenerateCmd.Flags().StringP("output", "o", "text", "Output: text, json, yaml or msgpack")
	GenerateCmd.Flags().String("dsn", "", "Postgres connection string to save the result to")
}

// generatePipeline builds the steps shared by generate and lattice.
func generatePipeline(cfg *Config, extra ...pipz.Chainable[*galois.FormalContext]) (*pipz.Sequence[*galois.FormalContext], error) {
	gen, err := galois.NewGenerator(cfg.Algorithm, cfg.Workers)
	if err != nil {
		return nil, err
	}

	var steps []pipz.Chainable[*galois.FormalContext]
	if cfg.Reduce {
		steps = append(steps, galois.NewReducer())
	}
	steps = append(steps, galois.Do("generate", gen.Generate))
	if cfg.Verify {
		steps = append(steps, galois.NewVerifier())
	}
	steps = append(steps, extra...)
	return galois.Sequence("galois", steps...), nil
}

func runGenerate(ctx context.Context, path string, cfg *Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fc, err := contextio.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	var extra []pipz.Chainable[*galois.FormalContext]
	if cfg.DSN != "" {
		db, err := sqlx.Connect("postgres", cfg.DSN)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		store, err := galois.NewSoyStore(db)
		if err != nil {
			db.Close()
			return err
		}
		defer store.Close()
		extra = append(extra, galois.Retry("persist", galois.NewPersister(store), 3))
	}

	pipeline, err := generatePipeline(cfg, extra...)
	if err != nil {
		return err
	}
	fc, err = pipeline.Process(ctx, fc)
	if err != nil {
		return err
	}

	Logger.Infow("generated",
		"context", fc.Name,
		"concepts", fc.Len(),
		"duration", fc.Stats().Duration,
	)

	if cfg.Output == "" || cfg.Output == "text" {
		return writeConcepts(out, fc)
	}
	format, err := contextio.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	return contextio.WriteSnapshot(out, format, fc)
}
