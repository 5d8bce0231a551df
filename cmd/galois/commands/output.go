package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/zoobzio/galois"
)

// writeConcepts prints a summary line and one row per concept.
func writeConcepts(out io.Writer, fc *galois.FormalContext) error {
	stats := fc.Stats()
	fmt.Fprintf(out, "%s: %d objects, %d attributes, %d concepts (%s, %s)\n",
		fc.Name, fc.ObjectCount(), fc.AttributeCount(), fc.Len(), stats.Algorithm, stats.Duration)
	if r := fc.Reduction(); r != nil {
		fmt.Fprintf(out, "reduced: %d objects and %d attributes collapsed\n",
			r.RemovedObjects(), r.RemovedAttributes())
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tEXTENT\tINTENT")
	for _, c := range fc.Concepts() {
		fmt.Fprintf(tw, "#%d\t%s\t%s\n", c.Sequence(), objectList(fc, c.Extent()), attributeList(fc, c.Intent()))
	}
	return tw.Flush()
}

// writeLattice prints the lattice concepts and its covering relation.
func writeLattice(out io.Writer, l *galois.Lattice) error {
	fc := l.Context()
	fmt.Fprintf(out, "%s: %d concepts, %d edges\n", fc.Name, l.Len(), l.EdgeCount())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tTYPE\tEXTENT\tINTENT\tCHILDREN")
	for _, c := range l.Concepts() {
		children := l.Children(c.Sequence())
		seqs := make([]string, len(children))
		for k, child := range children {
			seqs[k] = fmt.Sprintf("#%d", child.Sequence())
		}
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\n",
			c.Sequence(), c.Type(), objectList(fc, c.Extent()), attributeList(fc, c.Intent()), strings.Join(seqs, " "))
	}
	return tw.Flush()
}

func objectList(fc *galois.FormalContext, e galois.Extent) string {
	names := make([]string, 0, e.Len())
	for _, i := range e.Sorted() {
		names = append(names, fc.ObjectName(i))
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func attributeList(fc *galois.FormalContext, in galois.Intent) string {
	names := make([]string, 0, in.Len())
	for _, j := range in.Sorted() {
		names = append(names, fc.AttributeName(j))
	}
	return "{" + strings.Join(names, ", ") + "}"
}
