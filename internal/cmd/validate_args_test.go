package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/turbot/bqpipe/internal/document"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

type validateArgTestCase struct {
	request  compileRequest
	expected string
}

func intPtr(i int) *int {
	return &i
}

var validateArgTestCases = map[string]validateArgTestCase{
	"missing name": {
		request:  compileRequest{path: "daily.yaml"},
		expected: "--name is required",
	},
	"negative billing": {
		request:  compileRequest{name: "daily", billing: intPtr(-1)},
		expected: "--billing must not be negative",
	},
	"watch stdin": {
		request:  compileRequest{name: "daily", path: "-", watch: true},
		expected: "--watch requires --file",
	},
	"valid": {
		request: compileRequest{name: "daily", path: "daily.yaml", billing: intPtr(2), watch: true},
	},
}

func TestValidateArgs(t *testing.T) {
	for name, testCase := range validateArgTestCases {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			err := testCase.request.validate()
			if testCase.expected == "" {
				assert.Nil(err)
				return
			}
			if assert.NotNil(err) {
				assert.True(perr.IsConfigurationError(err))
				e, _ := perr.AsErrorModel(err)
				assert.Equal(testCase.expected, e.Detail)
			}
		})
	}
}

func TestParseVars(t *testing.T) {
	assert := assert.New(t)

	env, err := parseVars([]string{"dataset=raw", "query=SELECT a = 1"})
	assert.Nil(err)
	assert.Equal(document.Environment{"dataset": "raw", "query": "SELECT a = 1"}, env)

	_, err = parseVars([]string{"dataset"})
	assert.True(perr.IsConfigurationError(err))

	_, err = parseVars([]string{"=raw"})
	assert.True(perr.IsConfigurationError(err))
}

func TestOutputModeName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("table", outputModeName(types.OutputModeTable))
	assert.Equal("json", outputModeName(types.OutputModeJson))
	assert.Equal("yaml", outputModeName(types.OutputModeYaml))
	assert.Equal("table", outputModeName(types.OutputMode(42)))
}

func TestScheduledRuns(t *testing.T) {
	assert := assert.New(t)

	spec := &types.PipelineSpec{
		Name:     "daily",
		Schedule: &types.ScheduleSpec{Interval: "0 6 * * *"},
	}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	printable, err := scheduledRuns(spec, from, 2)
	assert.Nil(err)
	assert.Equal([]types.ScheduledRun{
		{Pipeline: "daily", Cron: "0 6 * * *", NextRun: "2024-01-01T06:00:00Z"},
		{Pipeline: "daily", Cron: "0 6 * * *", NextRun: "2024-01-02T06:00:00Z"},
	}, printable.Items)

	printable, err = scheduledRuns(&types.PipelineSpec{Name: "adhoc"}, from, 2)
	assert.Nil(err)
	assert.Empty(printable.Items)
}
