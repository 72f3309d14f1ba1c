package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thediveo/enumflag/v2"
	"github.com/turbot/bqpipe/internal/config"
	"github.com/turbot/bqpipe/internal/constants"
	"github.com/turbot/bqpipe/internal/printers"
	"github.com/turbot/bqpipe/internal/registry"
	"github.com/turbot/bqpipe/internal/types"
)

// outputMode backs the persistent --output flag.
var outputMode types.OutputMode

// RootCommand builds the cobra command tree of the command line tool.
func RootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           constants.AppName,
		Short:         constants.ShortDescription,
		Long:          constants.LongDescription,
		Version:       viper.GetString("main.version"),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Root().PersistentFlags()
			if err := viper.BindPFlag(constants.ConfigKeyRegistryDSN, flags.Lookup(constants.ArgRegistry)); err != nil {
				return err
			}
			if err := viper.BindPFlag(constants.ConfigKeyRegistryDriver, flags.Lookup(constants.ArgDriver)); err != nil {
				return err
			}
			if flags.Changed(constants.ArgOutput) {
				viper.Set(constants.ConfigKeyOutput, outputModeName(outputMode))
			}
			return nil
		},
	}
	rootCmd.SetVersionTemplate("bqpipe v{{.Version}}\n")
	rootCmd.SetContext(ctx)

	rootCmd.PersistentFlags().String(constants.ArgRegistry, constants.DefaultRegistryDSN, "Registry data source name")
	rootCmd.PersistentFlags().String(constants.ArgDriver, constants.DefaultRegistryDriver, "Registry driver; one of: memory, sqlite3, postgres, duckdb")

	rootCmd.PersistentFlags().Var(
		enumflag.New(&outputMode, constants.ArgOutput, types.OutputModeIds, enumflag.EnumCaseInsensitive),
		constants.ArgOutput,
		"Output format; one of: table, yaml, json")

	// disable auto completion generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	addCommands(rootCmd)

	return rootCmd
}

func addCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(pipelineCmd())
	rootCmd.AddCommand(pipeline2Cmd())
}

func outputModeName(mode types.OutputMode) string {
	if ids, ok := types.OutputModeIds[mode]; ok && len(ids) > 0 {
		return ids[0]
	}
	return constants.DefaultOutput
}

func getPrinter() (printers.ResourcePrinter, error) {
	return printers.GetPrinter(viper.GetString(constants.ConfigKeyOutput))
}

// openRegistry opens the registry named by the registry flags or their
// BQPIPE_REGISTRY_* environment overrides.
func openRegistry(opts ...config.ConfigOption) (*config.Config, registry.Registry, error) {
	c, err := config.NewConfig(opts...)
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.Open(c.RegistryDriver, c.RegistryDSN)
	if err != nil {
		return nil, nil, err
	}
	return c, reg, nil
}
