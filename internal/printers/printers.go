package printers

import (
	"context"
	"io"

	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/sanitize"
	"github.com/turbot/bqpipe/internal/types"
)

// Inspired by Kubernetes
//
// ResourcePrinter is an interface that knows how to print runtime objects.
type ResourcePrinter interface {
	// PrintResource receives a runtime object, formats it and prints it to a writer.
	PrintResource(context.Context, types.PrintableResource, io.Writer) error
}

// GetPrinter returns the printer for an output format name.
func GetPrinter(format string) (ResourcePrinter, error) {
	switch format {
	case "table":
		return NewTablePrinter(), nil
	case "json":
		return JsonPrinter{Sanitizer: sanitize.Instance}, nil
	case "yaml":
		return YamlPrinter{Sanitizer: sanitize.Instance}, nil
	}
	return nil, perr.ConfigurationErrorWithMessage("unsupported output format: " + format)
}
