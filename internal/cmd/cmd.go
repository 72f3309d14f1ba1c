package cmd

import (
	"context"
	"os"

	"github.com/turbot/bqpipe/internal/perr"
)

// RunCLI executes the root command and exits with a code describing the failure.
func RunCLI(ctx context.Context) {
	cmd := RootCommand(ctx)

	if err := cmd.ExecuteContext(ctx); err != nil {
		ShowError(ctx, err)
		os.Exit(perr.GetExitCode(err, false))
	}
}
