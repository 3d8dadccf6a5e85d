// Package output renders command results in a user-selected format.
package output

import (
	"fmt"
	"io"
)

// Format identifies a rendering format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Table is the tabular projection of a value, supplied by the caller so the
// renderer does not need reflection.
type Table struct {
	Header []string
	Rows   [][]string
}

// Renderer writes a value in one format.
type Renderer interface {
	// Name returns the format name (e.g. "json").
	Name() string
	// Render writes data to w. table carries the tabular projection and may
	// be nil for formats that do not use it.
	Render(w io.Writer, data interface{}, table *Table) error
}

// New returns the renderer for a format. An empty format means table.
func New(format Format) (Renderer, error) {
	switch format {
	case FormatTable, "":
		return &TableRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatYAML:
		return &YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
