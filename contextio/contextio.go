// Package contextio reads and writes formal contexts.
//
// Contexts are exchanged as cross tables in CSV, or as documents in JSON,
// TOML and YAML. Generated contexts, concepts and labels included, are
// exchanged as snapshots in JSON, YAML and msgpack.
package contextio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/zoobzio/galois"
	"gopkg.in/yaml.v3"
)

// Format names a serialization.
type Format string

// Supported formats.
const (
	CSV     Format = "csv"
	JSON    Format = "json"
	TOML    Format = "toml"
	YAML    Format = "yaml"
	MsgPack Format = "msgpack"
)

// ErrUnknownFormat is returned for formats a reader or writer does not support.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat normalises a format name. "yml" is accepted for YAML and "mp"
// for msgpack.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	case "msgpack", "mp":
		return MsgPack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Document is the declarative form of a context.
//
//	name = "animals"
//	objects = ["cat", "frog"]
//	attributes = ["fur", "legs", "swims"]
//	relation = [[1, 1, 0], [0, 1, 1]]
type Document struct {
	Name       string   `json:"name" toml:"name" yaml:"name"`
	Objects    []string `json:"objects,omitempty" toml:"objects,omitempty" yaml:"objects,omitempty"`
	Attributes []string `json:"attributes,omitempty" toml:"attributes,omitempty" yaml:"attributes,omitempty"`
	Relation   [][]int  `json:"relation" toml:"relation" yaml:"relation"`
}

// NewDocument captures the relation and names of fc.
func NewDocument(fc *galois.FormalContext) Document {
	return Document{
		Name:       fc.Name,
		Objects:    fc.ObjectNames(),
		Attributes: fc.AttributeNames(),
		Relation:   fc.Relation().Ints(),
	}
}

// Context builds an ungenerated context from the document.
func (d Document) Context(ctx context.Context) (*galois.FormalContext, error) {
	if len(d.Relation) == 0 {
		return nil, fmt.Errorf("%w: %q has no objects", galois.ErrInvalidContext, d.Name)
	}
	fc, err := galois.NewFromInts(ctx, d.Name, d.Relation)
	if err != nil {
		return nil, err
	}
	if err := fc.SetNames(emptyToNil(d.Objects), emptyToNil(d.Attributes)); err != nil {
		return nil, err
	}
	return fc, nil
}

// Load reads a context in the given format. Name is used when the input does
// not carry one.
func Load(ctx context.Context, format Format, r io.Reader, name string) (*galois.FormalContext, error) {
	var doc Document
	switch format {
	case CSV:
		d, err := readCSV(r)
		if err != nil {
			return nil, err
		}
		doc = d
	case JSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case TOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: cannot load a context from %q", ErrUnknownFormat, format)
	}
	if doc.Name == "" {
		doc.Name = name
	}
	return doc.Context(ctx)
}

// LoadFile reads a context from path, inferring the format from its extension
// and the default name from its base name.
func LoadFile(ctx context.Context, path string) (*galois.FormalContext, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fc, err := Load(ctx, format, f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fc, nil
}

// Write serializes the relation and names of fc in the given format.
func Write(w io.Writer, format Format, fc *galois.FormalContext) error {
	doc := NewDocument(fc)
	switch format {
	case CSV:
		return writeCSV(w, fc)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case TOML:
		return toml.NewEncoder(w).Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: cannot write a context as %q", ErrUnknownFormat, format)
	}
}

func emptyToNil(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
