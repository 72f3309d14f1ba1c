package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

var testSchema = []types.TableField{{Name: "id", Type: "INTEGER"}}

func TestBuildLoadMode(t *testing.T) {
	assert := assert.New(t)

	task, err := BuildLoad(&types.InputConfig{Path: strPtr("gs://x"), Table: strPtr("t"), Schema: testSchema})
	assert.Nil(err)
	if assert.NotNil(task) {
		assert.Equal("create", *task.Mode)
	}

	task, err = BuildLoad(&types.InputConfig{Path: strPtr("gs://x"), Table: strPtr("t")})
	assert.Nil(err)
	if assert.NotNil(task) {
		assert.Equal("append", *task.Mode)
	}
}

func TestBuildLoadDefaults(t *testing.T) {
	task, err := BuildLoad(&types.InputConfig{Path: strPtr("gs://x"), Table: strPtr("t"), Schema: testSchema})
	assert.Nil(t, err)

	expected := types.NewLoadTask()
	expected.Path = "gs://x"
	expected.Table = strPtr("t")
	expected.Schema = testSchema
	expected.Mode = strPtr("create")
	expected.Format = "csv"
	expected.Delimiter = ","
	expected.Quote = `"`
	expected.Skip = 0
	expected.Strict = true

	if diff := cmp.Diff(expected, task); diff != "" {
		t.Errorf("load task mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildLoadOverrides(t *testing.T) {
	assert := assert.New(t)

	task, err := BuildLoad(&types.InputConfig{
		Path:      strPtr("gs://x"),
		Table:     strPtr("t"),
		Format:    strPtr("json"),
		Delimiter: strPtr("|"),
		Quote:     strPtr("'"),
		Skip:      intPtr(2),
		Strict:    boolPtr(false),
	})
	assert.Nil(err)
	assert.Equal("json", task.Format)
	assert.Equal("|", task.Delimiter)
	assert.Equal("'", task.Quote)
	assert.Equal(2, task.Skip)
	assert.False(task.Strict)
}

func TestBuildLoadWithoutTable(t *testing.T) {
	assert := assert.New(t)

	task, err := BuildLoad(&types.InputConfig{Path: strPtr("gs://x"), Schema: testSchema})
	assert.Nil(err)
	if assert.NotNil(task) {
		assert.Nil(task.Mode, "table-less load must not carry a mode")
		assert.Nil(task.Table)
		assert.Equal(testSchema, task.Schema)
		assert.Equal("csv", task.Format)
		assert.Equal([]types.TaskName{}, task.UpStream)
	}
}

func TestBuildLoadNotNeeded(t *testing.T) {
	assert := assert.New(t)

	for name, input := range map[string]*types.InputConfig{
		"nil":         nil,
		"empty":       {},
		"table only":  {Table: strPtr("t")},
		"schema only": {Schema: testSchema},
	} {
		task, err := BuildLoad(input)
		assert.Nil(err, name)
		assert.Nil(task, name)
	}
}

func TestBuildLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input *types.InputConfig
	}{
		{
			name:  "schema without path",
			input: &types.InputConfig{Table: strPtr("t"), Schema: testSchema},
		},
		{
			name:  "format without path",
			input: &types.InputConfig{Table: strPtr("t"), Format: strPtr("csv")},
		},
		{
			name:  "skip without anything",
			input: &types.InputConfig{Skip: intPtr(1)},
		},
		{
			name:  "strict without path",
			input: &types.InputConfig{Strict: boolPtr(true)},
		},
		{
			name:  "quote without path",
			input: &types.InputConfig{Quote: strPtr("'")},
		},
		{
			name:  "delimiter without path",
			input: &types.InputConfig{Table: strPtr("t"), Delimiter: strPtr(";")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := BuildLoad(tt.input)
			assert.Nil(t, task)
			assert.True(t, perr.IsConfigurationError(err), "expected configuration error, got %v", err)
		})
	}
}

func TestBuildLoadEmptySchema(t *testing.T) {
	assert := assert.New(t)

	task, err := BuildLoad(&types.InputConfig{Path: strPtr("gs://x"), Table: strPtr("t"), Schema: []types.TableField{}})
	assert.Nil(err)
	if assert.NotNil(task) {
		assert.Equal("append", *task.Mode)
		assert.Nil(task.Schema)
	}

	task, err = BuildLoad(&types.InputConfig{Table: strPtr("t"), Schema: []types.TableField{}})
	assert.Nil(err)
	assert.Nil(task)
}
