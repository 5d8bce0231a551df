package contextio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zoobzio/galois"
)

// readCSV parses a cross table. The first row holds attribute names after a
// corner cell; every other row starts with an object name. Cells are 1, x or
// true for a held attribute and 0, blank, - or false otherwise.
func readCSV(r io.Reader) (Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Document{}, fmt.Errorf("%w: empty CSV", galois.ErrInvalidContext)
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse CSV: %w", err)
	}

	doc := Document{Attributes: header[1:]}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Document{}, fmt.Errorf("failed to parse CSV: %w", err)
		}
		if len(record) != len(header) {
			return Document{}, fmt.Errorf("%w: line %d has %d cells, want %d", galois.ErrInvalidContext, line, len(record), len(header))
		}

		row := make([]int, len(record)-1)
		for j, cell := range record[1:] {
			v, err := parseCell(cell)
			if err != nil {
				return Document{}, fmt.Errorf("line %d, attribute %q: %w", line, header[j+1], err)
			}
			row[j] = v
		}
		doc.Objects = append(doc.Objects, record[0])
		doc.Relation = append(doc.Relation, row)
	}
	return doc, nil
}

func parseCell(cell string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "1", "x", "true", "yes":
		return 1, nil
	case "0", "", "-", "false", "no":
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: cell %q is not a boolean", galois.ErrInvalidContext, cell)
	}
}

// writeCSV writes fc as a cross table readable by readCSV.
func writeCSV(w io.Writer, fc *galois.FormalContext) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, fc.AttributeCount()+1)
	header = append(header, "")
	for j := 0; j < fc.AttributeCount(); j++ {
		header = append(header, fc.AttributeName(j))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range fc.Relation() {
		record := make([]string, 0, len(row)+1)
		record = append(record, fc.ObjectName(i))
		for _, held := range row {
			if held {
				record = append(record, "1")
			} else {
				record = append(record, "0")
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
