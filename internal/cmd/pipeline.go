package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/bqpipe/internal/airflow"
	"github.com/turbot/bqpipe/internal/cmdconfig"
	"github.com/turbot/bqpipe/internal/config"
	"github.com/turbot/bqpipe/internal/constants"
	"github.com/turbot/bqpipe/internal/document"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/pipeline"
	"github.com/turbot/bqpipe/internal/printers"
	"github.com/turbot/bqpipe/internal/registry"
	"github.com/turbot/bqpipe/internal/schedule"
	"github.com/turbot/bqpipe/internal/types"
)

// pipeline commands
func pipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Args:  cobra.NoArgs,
		RunE:  compilePipelineFunc,
		Short: "Compile a pipeline document and register it",
		Long: `Compile a pipeline document and register it under --name.

The document is read from --file, or from stdin when no file is given.`,
	}

	addCompileFlags(cmd)

	cmd.AddCommand(pipelineListCmd())
	cmd.AddCommand(pipelineShowCmd())
	cmd.AddCommand(pipelineScheduleCmd())
	cmd.AddCommand(pipelineDeleteCmd())

	return cmd
}

func addCompileFlags(cmd *cobra.Command) {
	cmdconfig.OnCmd(cmd).
		AddStringFlag(constants.ArgName, "", "", "Name to register the pipeline under").
		AddIntFlag(constants.ArgBilling, 0, "Billing tier recorded on the execute task").
		AddBoolFlag(constants.ArgDebug, false, "Log compile decisions and print the scheduler program").
		AddStringFlag(constants.ArgFile, "f", "", "Pipeline document, - for stdin").
		AddStringFlag(constants.ArgFormat, "", "", "Document format; one of: yaml, hcl (default: from the file extension)").
		AddStringArrayFlag(constants.ArgVar, nil, "Document variable in the form name=value").
		AddBoolFlag(constants.ArgWatch, false, "Recompile whenever the document file changes")
}

func compilePipelineFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !cmd.Flags().Changed(constants.ArgName) && !cmd.Flags().Changed(constants.ArgFile) {
		return cmd.Help()
	}

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
		return printCompiled(ctx, cmd, spec, viper.GetBool(constants.ArgDebug))
	}

	if req.watch {
		return watchFile(ctx, req.path, compile)
	}
	return compile()
}

// compileRequest holds the flag values shared by pipeline and pipeline2.
type compileRequest struct {
	name    string
	path    string
	format  string
	env     document.Environment
	billing *int
	watch   bool
}

func newCompileRequest(cmd *cobra.Command) (*compileRequest, error) {
	env, err := parseVars(viper.GetStringSlice(constants.ArgVar))
	if err != nil {
		return nil, err
	}

	req := &compileRequest{
		name:   viper.GetString(constants.ArgName),
		path:   viper.GetString(constants.ArgFile),
		format: viper.GetString(constants.ArgFormat),
		env:    env,
		watch:  viper.GetBool(constants.ArgWatch),
	}
	if req.format == "" {
		req.format = document.FormatFromPath(req.path)
	}
	if cmd.Flags().Changed(constants.ArgBilling) {
		billing := viper.GetInt(constants.ArgBilling)
		req.billing = &billing
	}

	if err := req.validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *compileRequest) validate() error {
	if r.name == "" {
		return perr.ConfigurationErrorWithMessage("--name is required")
	}
	if r.billing != nil && *r.billing < 0 {
		return perr.ConfigurationErrorWithMessage("--billing must not be negative")
	}
	if r.watch && (r.path == "" || r.path == "-") {
		return perr.ConfigurationErrorWithMessage("--watch requires --file")
	}
	return nil
}

func (r *compileRequest) compile(ctx context.Context, stdin io.Reader, reg registry.Registry) (*types.PipelineSpec, error) {
	body, err := readDocument(r.path, stdin)
	if err != nil {
		return nil, err
	}

	var opts []pipeline.AssembleOption
	if r.billing != nil {
		opts = append(opts, pipeline.WithBilling(*r.billing))
	}

	compiler := pipeline.NewCompiler(reg, pipeline.WithEnvironment(r.env))
	return compiler.Compile(ctx, r.name, body, r.format, opts...)
}

func readDocument(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.ConfigurationErrorWithMessage("unable to read pipeline document: " + err.Error())
	}
	return body, nil
}

// parseVars turns name=value pairs into a document environment.
func parseVars(vars []string) (document.Environment, error) {
	env := document.Environment{}
	for _, v := range vars {
		name, value, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, perr.ConfigurationErrorWithMessage("invalid variable '" + v + "': must be of form name=value")
		}
		env[name] = value
	}
	return env, nil
}

func printCompiled(ctx context.Context, cmd *cobra.Command, spec *types.PipelineSpec, debug bool) error {
	printer, err := getPrinter()
	if err != nil {
		return err
	}
	if err := printer.PrintResource(ctx, types.NewPrintablePipeline(spec), cmd.OutOrStdout()); err != nil {
		return err
	}

	if !debug {
		return nil
	}
	program, err := airflow.Render(spec)
	if err != nil {
		return err
	}
	slog.Debug("rendered scheduler program", "pipeline", spec.Name)
	return printers.StringPrinter{}.PrintResource(ctx, types.PrintableProgram{Items: []types.Program{{Pipeline: spec.Name, Source: program}}}, cmd.OutOrStdout())
}

// list
func pipelineListCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "list",
		Args:  cobra.NoArgs,
		RunE:  listPipelineFunc,
		Short: "List registered pipelines",
		Long:  `List registered pipelines.`,
	}
	// initialize hooks
	cmdconfig.OnCmd(cmd)

	return cmd
}

func listPipelineFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, reg, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	specs, err := reg.List(ctx)
	if err != nil {
		return err
	}

	printer, err := getPrinter()
	if err != nil {
		return err
	}
	return printer.PrintResource(ctx, types.NewPrintablePipeline(specs...), cmd.OutOrStdout())
}

// show
func pipelineShowCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "show <pipeline-name>",
		Args:  cobra.ExactArgs(1),
		RunE:  showPipelineFunc,
		Short: "Show a registered pipeline",
		Long:  `Show the compiled task graph of a registered pipeline.`,
	}
	// initialize hooks
	cmdconfig.OnCmd(cmd)

	return cmd
}

func showPipelineFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, reg, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	spec, err := reg.Get(ctx, args[0])
	if err != nil {
		return err
	}

	printer, err := getPrinter()
	if err != nil {
		return err
	}
	return printer.PrintResource(ctx, types.NewPrintablePipeline(spec), cmd.OutOrStdout())
}

// schedule
func pipelineScheduleCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "schedule <pipeline-name>",
		Args:  cobra.ExactArgs(1),
		RunE:  schedulePipelineFunc,
		Short: "Show the next runs of a registered pipeline",
		Long:  `Show the next runs of a registered pipeline, honouring its start and end dates.`,
	}

	cmdconfig.OnCmd(cmd).
		AddIntFlag(constants.ArgNextCount, constants.DefaultScheduleCount, "Number of runs to show")

	return cmd
}

func schedulePipelineFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, reg, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	spec, err := reg.Get(ctx, args[0])
	if err != nil {
		return err
	}

	printable, err := scheduledRuns(spec, time.Now(), viper.GetInt(constants.ArgNextCount))
	if err != nil {
		return err
	}

	printer, err := getPrinter()
	if err != nil {
		return err
	}
	return printer.PrintResource(ctx, printable, cmd.OutOrStdout())
}

func scheduledRuns(spec *types.PipelineSpec, from time.Time, count int) (*types.PrintableSchedule, error) {
	printable := &types.PrintableSchedule{}
	if spec.Schedule == nil || spec.Schedule.Interval == "" {
		return printable, nil
	}

	if err := schedule.Validate(spec.Name, spec.Schedule); err != nil {
		return nil, err
	}

	expr, err := schedule.ToCron(spec.Name, spec.Schedule.Interval)
	if err != nil {
		return nil, err
	}
	runs, err := schedule.NextRuns(spec.Name, spec.Schedule, from, count)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		printable.Items = append(printable.Items, types.ScheduledRun{
			Pipeline: spec.Name,
			Cron:     expr,
			NextRun:  run.UTC().Format(time.RFC3339),
		})
	}
	return printable, nil
}

// delete
func pipelineDeleteCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "delete <pipeline-name>",
		Args:  cobra.ExactArgs(1),
		RunE:  deletePipelineFunc,
		Short: "Remove a pipeline from the registry",
		Long:  `Remove a pipeline from the registry. Removing an unknown pipeline is not an error.`,
	}
	// initialize hooks
	cmdconfig.OnCmd(cmd)

	return cmd
}

func deletePipelineFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, reg, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	if err := reg.Delete(ctx, args[0]); err != nil {
		return err
	}
	slog.Info("pipeline deleted", "pipeline", args[0])
	return nil
}
