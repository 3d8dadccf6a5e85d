package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLRenderer renders values as YAML.
type YAMLRenderer struct{}

// Name returns the format name.
func (r *YAMLRenderer) Name() string {
	return string(FormatYAML)
}

// Render writes data as YAML. The table projection is ignored.
func (r *YAMLRenderer) Render(w io.Writer, data interface{}, _ *Table) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = w.Write(out)
	return err
}
