package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONRenderer renders values as indented JSON.
type JSONRenderer struct{}

// Name returns the format name.
func (r *JSONRenderer) Name() string {
	return string(FormatJSON)
}

// Render writes data as JSON. The table projection is ignored.
func (r *JSONRenderer) Render(w io.Writer, data interface{}, _ *Table) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}
