package cmdconfig

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/bqpipe/internal/constants"
	"github.com/turbot/bqpipe/internal/log"
	"github.com/turbot/bqpipe/internal/sanitize"
)

// preRunHook is a function that is executed before the PreRun of every command handler
func preRunHook(cmd *cobra.Command, args []string) error {
	sanitize.Instance = sanitize.NewSanitizer(sanitize.SanitizerOptions{
		ExcludeFields: viper.GetStringSlice(constants.ConfigKeyRedactFields),
	})

	// reset log level now the sanitizer is in place
	log.SetDefaultLogger()

	if f := cmd.Flags().Lookup(constants.ArgDebug); f != nil && f.Changed && f.Value.String() == "true" {
		log.SetDebugLogger()
	}

	slog.Debug("running command", "command", CommandFullKey(cmd), "args", args)
	return nil
}
