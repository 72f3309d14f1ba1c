package pipeline

import (
	"log/slog"

	"github.com/turbot/bqpipe/internal/params"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

const (
	ExecuteModeCreate = "create"
	DefaultLarge      = true
)

// BuildExecute decides whether a transformation task is needed. It returns nil
// when the transformation section has no query.
func BuildExecute(transformation *types.TransformationConfig) (*types.ExecuteTask, error) {
	if transformation == nil {
		return nil, nil
	}

	if transformation.Query == nil {
		if transformation.HasQueryOptions() {
			return nil, perr.ConfigurationErrorWithMessage("query option given without query")
		}
		slog.Debug("execute stage not needed")
		return nil, nil
	}

	task := types.NewExecuteTask()
	task.Query = *transformation.Query
	task.Large = boolOrDefault(transformation.Large, DefaultLarge)
	task.Mode = stringOrDefault(transformation.Mode, ExecuteModeCreate)

	if transformation.Parameters != nil {
		compiled, err := params.FromList(transformation.Query, transformation.Parameters)
		if err != nil {
			return nil, err
		}
		task.Parameters = compiled
	}

	slog.Debug("execute stage built", "large", task.Large, "mode", task.Mode, "parameters", len(task.Parameters))
	return task, nil
}
