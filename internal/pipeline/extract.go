package pipeline

import (
	"log/slog"

	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

const (
	DefaultCompress = true
	DefaultHeader   = true
)

// BuildExtract decides whether an extract task is needed. The output table is
// written into the execute task, which is the query's destination. Without an
// execute task the table becomes the extract source instead.
func BuildExtract(execute *types.ExecuteTask, output *types.OutputConfig) (*types.ExtractTask, error) {
	if output == nil || output.Table == nil {
		slog.Debug("extract stage not needed")
		return nil, nil
	}

	if execute != nil {
		table := *output.Table
		execute.Table = &table
	}

	if output.Path == nil {
		if output.HasFileOptions() {
			return nil, perr.ConfigurationErrorWithMessage("extract option given without path")
		}
		return nil, nil
	}

	task := types.NewExtractTask()
	task.Path = *output.Path
	if execute == nil {
		table := *output.Table
		task.Table = &table
	}
	task.Billing = output.Billing
	task.Compress = boolOrDefault(output.Compress, DefaultCompress)
	task.Delimiter = stringOrDefault(output.Delimiter, DefaultDelimiter)
	task.Header = boolOrDefault(output.Header, DefaultHeader)
	task.Format = stringOrDefault(output.Format, DefaultFileFormat)

	slog.Debug("extract stage built", "path", task.Path, "format", task.Format)
	return task, nil
}
