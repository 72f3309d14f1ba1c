package printers

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/sanitize"
	"github.com/turbot/bqpipe/internal/types"
)

func testPipeline() *types.PipelineSpec {
	load := types.NewLoadTask()
	load.Path = "gs://raw/*.csv"
	table := "raw.events"
	load.Table = &table

	execute := types.NewExecuteTask()
	execute.SetUpStream(types.TaskLoad)
	execute.Query = "SELECT 1"

	return &types.PipelineSpec{
		Name:  "events",
		Email: "ops@example.com",
		Tasks: map[types.TaskName]types.Task{
			types.TaskLoad:    load,
			types.TaskExecute: execute,
		},
	}
}

func TestTablePrinter(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	err := NewTablePrinter().PrintResource(context.Background(), types.NewPrintablePipeline(testPipeline()), &buf)
	assert.Nil(err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if assert.Len(lines, 3) {
		assert.Equal([]string{"PIPELINE", "TASK", "TYPE", "UP_STREAM", "TARGET"}, strings.Fields(lines[0]))
		assert.Equal([]string{"events", "load", "load", "gs://raw/*.csv", "->", "raw.events"}, strings.Fields(lines[1]))
		assert.Equal([]string{"events", "execute", "execute", "load"}, strings.Fields(lines[2]))
	}
}

func TestJsonPrinterRedacts(t *testing.T) {
	require := require.New(t)

	color.NoColor = true
	printer := JsonPrinter{Sanitizer: sanitize.NewSanitizer(sanitize.SanitizerOptions{ExcludeFields: []string{"email"}})}

	var buf bytes.Buffer
	require.NoError(printer.PrintResource(context.Background(), types.NewPrintablePipeline(testPipeline()), &buf))

	var out []map[string]any
	require.NoError(json.Unmarshal(buf.Bytes(), &out))
	require.Len(out, 1)
	require.Equal("<redacted>", out[0]["email"])
	require.Equal("events", out[0]["name"])
}

func TestYamlPrinter(t *testing.T) {
	assert := assert.New(t)

	color.NoColor = true
	var buf bytes.Buffer
	err := YamlPrinter{}.PrintResource(context.Background(), types.NewPrintablePipeline(testPipeline()), &buf)
	assert.Nil(err)
	assert.Contains(buf.String(), "name: events")
	assert.Contains(buf.String(), "query: SELECT 1")
}

func TestStringPrinter(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	err := StringPrinter{}.PrintResource(context.Background(), types.PrintableProgram{
		Items: []types.Program{{Pipeline: "a", Source: "dag = 1\n"}, {Pipeline: "b", Source: "dag = 2\n"}},
	}, &buf)
	assert.Nil(err)
	assert.Equal("dag = 1\ndag = 2\n", buf.String())

	err = StringPrinter{}.PrintResource(context.Background(), types.NewPrintablePipeline(testPipeline()), &buf)
	assert.NotNil(err)
}

func TestGetPrinter(t *testing.T) {
	assert := assert.New(t)

	for _, f := range []string{"table", "json", "yaml"} {
		p, err := GetPrinter(f)
		assert.Nil(err)
		assert.NotNil(p)
	}

	_, err := GetPrinter("xml")
	assert.True(perr.IsConfigurationError(err))
}
