package commands

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"github.com/zoobzio/galois"
	"github.com/zoobzio/galois/contextio"
	"gopkg.in/yaml.v3"
)

// LatticeCmd prints the concept lattice of a context file.
var LatticeCmd = &cobra.Command{
	Use:   "lattice FILE",
	Short: "Print the covering relation of the concept lattice",
	Long: `Generate the concepts of FILE, add the top and bottom concepts and print
every concept with the concepts directly below it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLattice(cmd.Context(), args[0], current, cmd.OutOrStdout())
	},
}

func init() {
	LatticeCmd.Flags().StringP("algorithm", "a", galois.DefaultAlgorithm, "Generator: inclose or parallel")
	LatticeCmd.Flags().IntP("workers", "w", 0, "Concurrent subtrees for the parallel generator (0 = GOMAXPROCS)")
	LatticeCmd.Flags().Bool("reduce", false, "Collapse duplicate objects and attributes first")
	LatticeCmd.Flags().StringP("output", "o", "text", "Output: text, json or yaml")
}

// latticeDocument is the serialized form of a lattice.
type latticeDocument struct {
	Name     string                     `json:"name" yaml:"name"`
	Concepts []contextio.ConceptSnapshot `json:"concepts" yaml:"concepts"`
	Edges    []galois.Edge              `json:"edges" yaml:"edges,flow"`
}

func runLattice(ctx context.Context, path string, cfg *Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fc, err := contextio.LoadFile(ctx, path)
	if err != nil {
		return err
	}
	pipeline, err := generatePipeline(cfg, galois.NewLatticeBuilder())
	if err != nil {
		return err
	}
	fc, err = pipeline.Process(ctx, fc)
	if err != nil {
		return err
	}
	l := fc.Lattice()

	switch cfg.Output {
	case "", "text":
		return writeLattice(out, l)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(newLatticeDocument(l))
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(newLatticeDocument(l)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return contextio.ErrUnknownFormat
	}
}

func newLatticeDocument(l *galois.Lattice) latticeDocument {
	doc := latticeDocument{Name: l.Context().Name, Edges: l.Edges()}
	for _, c := range l.Concepts() {
		label, _ := l.Context().Label(c.Sequence())
		doc.Concepts = append(doc.Concepts, contextio.ConceptSnapshot{
			Sequence: c.Sequence(),
			Kind:     string(c.Type()),
			Extent:   c.Extent().Sorted(),
			Intent:   c.Intent().Sorted(),
			Label:    label,
		})
	}
	return doc
}
