package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/turbot/bqpipe/internal/perr"
)

// ShowError prints err to stderr with a red prefix. Validation details of
// structured errors are listed one per line.
func ShowError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	slog.Debug("command failed", "error", err)

	fmt.Fprintf(color.Error, "%s: %s\n", color.RedString("Error"), err.Error())

	if e, ok := perr.AsErrorModel(err); ok {
		for _, detail := range e.ValidationErrors {
			if detail == nil {
				continue
			}
			if detail.Location != "" {
				fmt.Fprintf(color.Error, "  %s: %s\n", detail.Location, detail.Message)
			} else {
				fmt.Fprintf(color.Error, "  %s\n", detail.Message)
			}
		}
	}
}
