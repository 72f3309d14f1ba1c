package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

var testScheduleSpec = &types.ScheduleSpec{
	StartDate: "2024-01-01",
	EndDate:   "2024-12-31",
	Interval:  "@daily",
}

func testDocument() *types.Document {
	return &types.Document{
		Email:    "ops@example.com",
		Schedule: testScheduleSpec,
	}
}

func TestAssembleExecuteOnly(t *testing.T) {
	assert := assert.New(t)

	doc := testDocument()
	doc.Input = &types.InputConfig{Table: strPtr("t")}
	doc.Transformation = &types.TransformationConfig{Query: strPtr("SELECT 1")}
	doc.Output = &types.OutputConfig{}

	spec, err := Assemble("single", doc)
	assert.Nil(err)
	if assert.NotNil(spec) {
		assert.Len(spec.Tasks, 1)
		execute, ok := spec.Tasks[types.TaskExecute]
		assert.True(ok)
		assert.Equal("execute", execute.GetType())
		assert.Equal([]types.TaskName{}, execute.GetUpStream())
		assert.Equal("single", spec.Name)
		assert.Equal("ops@example.com", spec.Email)
		assert.Equal(testScheduleSpec, spec.Schedule)
	}
}

func TestAssembleEndToEnd(t *testing.T) {
	require := require.New(t)

	doc := testDocument()
	doc.Input = &types.InputConfig{Path: strPtr("gs://x"), Table: strPtr("t"), Schema: testSchema}
	doc.Transformation = &types.TransformationConfig{Query: strPtr("SELECT 1")}
	doc.Output = &types.OutputConfig{Table: strPtr("t2"), Path: strPtr("gs://y")}

	spec, err := Assemble("full", doc)
	require.NoError(err)

	load := types.NewLoadTask()
	load.Path = "gs://x"
	load.Table = strPtr("t")
	load.Schema = testSchema
	load.Mode = strPtr("create")
	load.Format = "csv"
	load.Delimiter = ","
	load.Quote = `"`
	load.Strict = true

	execute := types.NewExecuteTask()
	execute.UpStream = []types.TaskName{types.TaskLoad}
	execute.Query = "SELECT 1"
	execute.Large = true
	execute.Mode = "create"
	execute.Table = strPtr("t2")

	extract := types.NewExtractTask()
	extract.UpStream = []types.TaskName{types.TaskExecute}
	extract.Path = "gs://y"
	extract.Compress = true
	extract.Delimiter = ","
	extract.Header = true
	extract.Format = "csv"

	expected := &types.PipelineSpec{
		Name:     "full",
		Email:    "ops@example.com",
		Schedule: testScheduleSpec,
		Tasks: map[types.TaskName]types.Task{
			types.TaskLoad:    load,
			types.TaskExecute: execute,
			types.TaskExtract: extract,
		},
	}

	if diff := cmp.Diff(expected, spec); diff != "" {
		t.Errorf("pipeline mismatch (-want +got):\n%s", diff)
	}
	require.Equal([]types.TaskName{"load", "execute", "extract"}, spec.TaskNames())
}

func TestAssembleSerialisedShape(t *testing.T) {
	require := require.New(t)

	doc := testDocument()
	doc.Transformation = &types.TransformationConfig{Query: strPtr("SELECT 1")}
	doc.Output = &types.OutputConfig{Table: strPtr("t2"), Path: strPtr("gs://y")}

	spec, err := Assemble("shape", doc)
	require.NoError(err)

	data, err := json.Marshal(spec.Tasks)
	require.NoError(err)

	var tasks map[string]map[string]any
	require.NoError(json.Unmarshal(data, &tasks))

	require.Equal(map[string]any{
		"type":      "execute",
		"up_stream": []any{},
		"query":     "SELECT 1",
		"large":     true,
		"mode":      "create",
		"table":     "t2",
	}, tasks["execute"])

	require.Equal(map[string]any{
		"type":      "extract",
		"up_stream": []any{"execute"},
		"path":      "gs://y",
		"billing":   nil,
		"compress":  true,
		"delimiter": ",",
		"header":    true,
		"format":    "csv",
	}, tasks["extract"])
}

func TestAssembleLoadOnlyHasNoEdges(t *testing.T) {
	assert := assert.New(t)

	doc := testDocument()
	doc.Input = &types.InputConfig{Path: strPtr("gs://x"), Table: strPtr("t")}

	spec, err := Assemble("load_only", doc)
	assert.Nil(err)
	assert.Len(spec.Tasks, 1)
	assert.Equal([]types.TaskName{}, spec.Tasks[types.TaskLoad].GetUpStream())
}

func TestAssembleExtractWithoutExecute(t *testing.T) {
	assert := assert.New(t)

	doc := testDocument()
	doc.Input = &types.InputConfig{Path: strPtr("gs://x"), Table: strPtr("t")}
	doc.Output = &types.OutputConfig{Table: strPtr("t"), Path: strPtr("gs://y")}

	spec, err := Assemble("copy", doc)
	assert.Nil(err)
	assert.Len(spec.Tasks, 2)
	assert.Equal([]types.TaskName{}, spec.Tasks[types.TaskExtract].GetUpStream())
	assert.Nil(spec.Validate())
}

func TestAssembleBilling(t *testing.T) {
	assert := assert.New(t)

	doc := testDocument()
	doc.Transformation = &types.TransformationConfig{Query: strPtr("SELECT 1")}

	spec, err := Assemble("billed", doc, WithBilling(2))
	assert.Nil(err)
	assert.Equal(2, *spec.Tasks[types.TaskExecute].(*types.ExecuteTask).Billing)

	spec, err = Assemble("unbilled", doc)
	assert.Nil(err)
	assert.Nil(spec.Tasks[types.TaskExecute].(*types.ExecuteTask).Billing)
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name     string
		pipeline string
		doc      func() *types.Document
		check    func(error) bool
	}{
		{
			name:     "missing name",
			pipeline: "",
			doc: func() *types.Document {
				doc := testDocument()
				doc.Transformation = &types.TransformationConfig{Query: strPtr("SELECT 1")}
				return doc
			},
			check: perr.IsConfigurationError,
		},
		{
			name:     "no tasks",
			pipeline: "empty",
			doc: func() *types.Document {
				doc := testDocument()
				doc.Input = &types.InputConfig{}
				doc.Transformation = &types.TransformationConfig{}
				doc.Output = &types.OutputConfig{}
				return doc
			},
			check: perr.IsConfigurationError,
		},
		{
			name:     "missing email",
			pipeline: "anonymous",
			doc: func() *types.Document {
				return &types.Document{Transformation: &types.TransformationConfig{Query: strPtr("SELECT 1")}}
			},
			check: perr.IsConfigurationError,
		},
		{
			name:     "invalid email",
			pipeline: "bad_email",
			doc: func() *types.Document {
				doc := testDocument()
				doc.Email = "not-an-email"
				doc.Transformation = &types.TransformationConfig{Query: strPtr("SELECT 1")}
				return doc
			},
			check: perr.IsConfigurationError,
		},
		{
			name:     "invalid address in email list",
			pipeline: "bad_email_list",
			doc: func() *types.Document {
				doc := testDocument()
				doc.Email = "ops@example.com, not-an-email"
				doc.Transformation = &types.TransformationConfig{Query: strPtr("SELECT 1")}
				return doc
			},
			check: perr.IsConfigurationError,
		},
		{
			name:     "stage error",
			pipeline: "mode_without_query",
			doc: func() *types.Document {
				doc := testDocument()
				doc.Transformation = &types.TransformationConfig{Mode: strPtr("create")}
				return doc
			},
			check: perr.IsConfigurationError,
		},
		{
			name:     "bad parameters",
			pipeline: "bad_parameters",
			doc: func() *types.Document {
				doc := testDocument()
				doc.Transformation = &types.TransformationConfig{
					Query:      strPtr("SELECT 1"),
					Parameters: []any{"day"},
				}
				return doc
			},
			check: perr.IsSchemaValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Assemble(tt.pipeline, tt.doc())
			assert.Nil(t, spec)
			assert.True(t, tt.check(err), "unexpected error %v", err)
		})
	}
}

func TestAssembleEmailValidationDetails(t *testing.T) {
	assert := assert.New(t)

	_, err := Assemble("bad_email", &types.Document{Email: "nope"})
	e, ok := perr.AsErrorModel(err)
	assert.True(ok)
	if assert.Len(e.ValidationErrors, 1) {
		assert.Equal("pipeline.Email", e.ValidationErrors[0].Location)
	}
}

func TestAssembleEmailList(t *testing.T) {
	assert := assert.New(t)

	doc := testDocument()
	doc.Email = "ops@example.com, oncall@example.com"
	doc.Transformation = &types.TransformationConfig{Query: strPtr("SELECT 1")}

	spec, err := Assemble("shared", doc)
	assert.Nil(err)
	assert.Equal("ops@example.com, oncall@example.com", spec.Email)
}

func TestAssemblePassesScheduleThrough(t *testing.T) {
	assert := assert.New(t)

	schedule := &types.ScheduleSpec{
		StartDate: "2024-01-01",
		Interval:  "whenever the warehouse is idle",
		Extra:     map[string]any{"catchup": false},
	}
	doc := testDocument()
	doc.Schedule = schedule
	doc.Transformation = &types.TransformationConfig{Query: strPtr("SELECT 1")}

	spec, err := Assemble("opaque_schedule", doc)
	assert.Nil(err)
	assert.Same(schedule, spec.Schedule)
}
