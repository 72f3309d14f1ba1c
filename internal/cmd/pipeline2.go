package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/bqpipe/internal/airflow"
	"github.com/turbot/bqpipe/internal/config"
	"github.com/turbot/bqpipe/internal/constants"
	"github.com/turbot/bqpipe/internal/printers"
	"github.com/turbot/bqpipe/internal/types"
)

func pipeline2Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline2",
		Args:  cobra.NoArgs,
		RunE:  compileProgramFunc,
		Short: "Compile a pipeline document and print its scheduler program",
		Long: `Compile a pipeline document, register it under --name and print the
scheduler (Airflow DAG) program for it.`,
	}

	addCompileFlags(cmd)

	return cmd
}

func compileProgramFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	req, err := newCompileRequest(cmd)
	if err != nil {
		return err
	}

	_, reg, err := openRegistry(config.WithEnvironment(req.env))
	if err != nil {
		return err
	}
	defer reg.Close()

	compile := func() error {
		spec, err := req.compile(ctx, cmd.InOrStdin(), reg)
		if err != nil {
			return err
		}
		return printProgram(ctx, cmd, spec)
	}

	if req.watch {
		return watchFile(ctx, req.path, compile)
	}
	return compile()
}

// printProgram prints the program source as is unless a structured output was asked for.
func printProgram(ctx context.Context, cmd *cobra.Command, spec *types.PipelineSpec) error {
	source, err := airflow.Render(spec)
	if err != nil {
		return err
	}
	printable := types.PrintableProgram{Items: []types.Program{{Pipeline: spec.Name, Source: source}}}

	var printer printers.ResourcePrinter = printers.StringPrinter{}
	if output := viper.GetString(constants.ConfigKeyOutput); output != constants.DefaultOutput {
		if printer, err = printers.GetPrinter(output); err != nil {
			return err
		}
	}
	return printer.PrintResource(ctx, printable, cmd.OutOrStdout())
}
