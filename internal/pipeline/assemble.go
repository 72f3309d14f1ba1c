package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

var validate = validator.New()

type assembleOptions struct {
	billing *int
}

type AssembleOption func(*assembleOptions)

// WithBilling records a billing tier on the execute task.
func WithBilling(tier int) AssembleOption {
	return func(o *assembleOptions) {
		o.billing = &tier
	}
}

// Assemble compiles a pipeline document into a named task graph. Stages are
// built in order load, execute, extract; extract may set the execute table.
func Assemble(name string, doc *types.Document, opts ...AssembleOption) (*types.PipelineSpec, error) {
	if name == "" {
		return nil, perr.ConfigurationErrorWithMessage("pipeline name was not specified")
	}
	if doc == nil {
		doc = &types.Document{}
	}

	o := &assembleOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if err := validate.Struct(doc); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return nil, perr.ConfigurationErrorFromValidation("invalid pipeline document", perr.ValidationError{Type: "pipeline", Errors: ve})
		}
		return nil, perr.Internal(err)
	}

	if err := validateEmail(doc.Email); err != nil {
		return nil, err
	}

	load, err := BuildLoad(doc.Input)
	if err != nil {
		return nil, err
	}

	execute, err := BuildExecute(doc.Transformation)
	if err != nil {
		return nil, err
	}

	extract, err := BuildExtract(execute, doc.Output)
	if err != nil {
		return nil, err
	}

	tasks := map[types.TaskName]types.Task{}
	if load != nil {
		tasks[types.TaskLoad] = load
	}
	if execute != nil {
		if load != nil {
			execute.SetUpStream(types.TaskLoad)
		}
		if o.billing != nil {
			tier := *o.billing
			execute.Billing = &tier
		}
		tasks[types.TaskExecute] = execute
	}
	if extract != nil {
		if execute != nil {
			extract.SetUpStream(types.TaskExecute)
		}
		tasks[types.TaskExtract] = extract
	}

	if len(tasks) == 0 {
		return nil, perr.ConfigurationErrorWithMessage("pipeline has no tasks to execute")
	}

	spec := &types.PipelineSpec{
		Name:     name,
		Email:    doc.Email,
		Schedule: doc.Schedule,
		Tasks:    tasks,
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("pipeline assembled", "pipeline", name, "tasks", len(tasks))
	return spec, nil
}

// validateEmail checks every address of a comma separated email list.
func validateEmail(email string) error {
	addresses := types.SplitEmail(email)
	if len(addresses) == 0 {
		return perr.ConfigurationErrorWithMessage("pipeline email was not specified")
	}
	for _, a := range addresses {
		if err := validate.Var(a, "email"); err != nil {
			e := perr.ConfigurationErrorWithMessage("invalid pipeline document")
			e.ValidationErrors = []*perr.ErrorDetailModel{{
				Message:  fmt.Sprintf("%s is not a valid email address", a),
				Location: "pipeline.Email",
			}}
			return e
		}
	}
	return nil
}
