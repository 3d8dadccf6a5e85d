package output

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// TableRenderer renders the tabular projection through pterm.
type TableRenderer struct{}

// Name returns the format name.
func (r *TableRenderer) Name() string {
	return string(FormatTable)
}

// Render writes the table projection. It fails when no projection was
// supplied, since it does not inspect data itself.
func (r *TableRenderer) Render(w io.Writer, _ interface{}, table *Table) error {
	if table == nil {
		return fmt.Errorf("no table projection for this value")
	}

	var rows pterm.TableData
	printer := pterm.DefaultTable.WithWriter(w)
	if len(table.Header) > 0 {
		rows = append(rows, table.Header)
		printer = printer.WithHasHeader()
	}
	rows = append(rows, table.Rows...)
	return printer.WithData(rows).Render()
}
