package printers

import (
	"context"
	"fmt"
	"io"

	"github.com/turbot/bqpipe/internal/types"
)

// StringPrinter writes items that render themselves, such as scheduler programs.
type StringPrinter struct {
}

func (p StringPrinter) PrintResource(_ context.Context, r types.PrintableResource, writer io.Writer) error {
	items, ok := r.GetItems(nil).([]fmt.Stringer)
	if !ok {
		return fmt.Errorf("resource cannot be printed as text")
	}
	for _, item := range items {
		if _, err := io.WriteString(writer, item.String()); err != nil {
			return fmt.Errorf("error printing resource: %w", err)
		}
	}
	return nil
}
