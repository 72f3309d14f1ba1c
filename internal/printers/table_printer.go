package printers

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/turbot/bqpipe/internal/sanitize"
	"github.com/turbot/bqpipe/internal/types"
)

// Inspired by Kubernetes
// TablePrinter prints the table form of a resource through a tabwriter.
type TablePrinter struct {
	Sanitizer *sanitize.Sanitizer
}

func NewTablePrinter() TablePrinter {
	return TablePrinter{
		Sanitizer: sanitize.Instance,
	}
}

func (p TablePrinter) PrintResource(_ context.Context, items types.PrintableResource, writer io.Writer) error {
	table, err := items.GetTable()
	if err != nil {
		return err
	}
	return p.PrintTable(table, writer)
}

func (p TablePrinter) PrintTable(table types.Table, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 1, 1, 4, ' ', tabwriter.TabIndent)

	var tableHeaders string
	var tableFormatter string
	for i, c := range table.Columns {
		if i > 0 {
			tableHeaders += "\t"
			tableFormatter += "\t"
		}
		tableHeaders += c.Name
		tableFormatter += c.Formatter()
	}
	tableHeaders += "\n"
	tableFormatter += "\n"

	//nolint:forbidigo // this is how the tabwriter works
	_, err := fmt.Fprint(w, tableHeaders)
	if err != nil {
		return err
	}

	for _, r := range table.Rows {
		str := fmt.Sprintf(tableFormatter, r.Cells...)
		if p.Sanitizer != nil {
			str = p.Sanitizer.SanitizeString(str)
		}

		//nolint:forbidigo // this is how the tabwriter works
		_, err := fmt.Fprint(w, str)
		if err != nil {
			return err
		}
	}

	return w.Flush()
}
