package pipeline

import (
	"log/slog"

	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

const (
	LoadModeCreate = "create"
	LoadModeAppend = "append"

	DefaultFileFormat = "csv"
	DefaultDelimiter  = ","
	DefaultQuote      = `"`
	DefaultSkip       = 0
	DefaultStrict     = true
)

// BuildLoad decides whether a load task is needed for the input section.
// It returns nil when the data is already resident or there is nothing to load.
func BuildLoad(input *types.InputConfig) (*types.LoadTask, error) {
	if input == nil {
		return nil, nil
	}

	pathExists := input.Path != nil
	tableExists := input.Table != nil
	// an empty schema describes no columns and counts as absent
	schemaExists := len(input.Schema) > 0

	task := types.NewLoadTask()
	if pathExists {
		task.Path = *input.Path
	}
	if tableExists {
		task.Table = input.Table
	}
	if schemaExists {
		task.Schema = input.Schema
	}

	needed := false
	switch {
	case tableExists && pathExists:
		needed = true
		mode := LoadModeAppend
		if schemaExists {
			mode = LoadModeCreate
		}
		task.Mode = &mode

	case tableExists:
		if schemaExists {
			return nil, perr.ConfigurationErrorWithMessage("schema given without path")
		}

	case pathExists:
		// no target table, so no mode
		needed = true
	}

	if !needed {
		if input.HasFileOptions() {
			return nil, perr.ConfigurationErrorWithMessage("file option given without path")
		}
		slog.Debug("load stage not needed", "table", tableExists)
		return nil, nil
	}

	task.Format = stringOrDefault(input.Format, DefaultFileFormat)
	task.Delimiter = stringOrDefault(input.Delimiter, DefaultDelimiter)
	task.Quote = stringOrDefault(input.Quote, DefaultQuote)
	task.Skip = intOrDefault(input.Skip, DefaultSkip)
	task.Strict = boolOrDefault(input.Strict, DefaultStrict)

	slog.Debug("load stage built", "path", task.Path, "mode", task.Mode)
	return task, nil
}

func stringOrDefault(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
