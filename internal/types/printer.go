package types

import (
	"fmt"
	"strings"

	"github.com/turbot/bqpipe/internal/sanitize"
)

type PrintableResource interface {
	GetItems(sanitizer *sanitize.Sanitizer) any
	GetTable() (Table, error)
}

// PrintablePipeline prints compiled pipelines.
type PrintablePipeline struct {
	Items []*PipelineSpec
}

func NewPrintablePipeline(items ...*PipelineSpec) *PrintablePipeline {
	return &PrintablePipeline{Items: items}
}

func (p PrintablePipeline) GetItems(sanitizer *sanitize.Sanitizer) any {
	if sanitizer == nil {
		return p.Items
	}
	return sanitizer.SanitizeStruct(p.Items)
}

func (p PrintablePipeline) GetTable() (Table, error) {
	var rows []TableRow
	for _, item := range p.Items {
		for _, name := range item.TaskNames() {
			task := item.Tasks[name]

			upStream := make([]string, 0, len(task.GetUpStream()))
			for _, up := range task.GetUpStream() {
				upStream = append(upStream, string(up))
			}

			rows = append(rows, TableRow{
				Cells: []any{
					item.Name,
					string(name),
					task.GetType(),
					strings.Join(upStream, ","),
					describeTask(task),
				},
			})
		}
	}

	return Table{
		Rows:    rows,
		Columns: pipelineColumns,
	}, nil
}

var pipelineColumns = []TableColumnDefinition{
	{Name: "PIPELINE", Type: "string", Description: "Pipeline name"},
	{Name: "TASK", Type: "string", Description: "Task name"},
	{Name: "TYPE", Type: "string", Description: "Task type"},
	{Name: "UP_STREAM", Type: "string", Description: "Upstream tasks"},
	{Name: "TARGET", Type: "string", Description: "Table or path the task writes to"},
}

func describeTask(task Task) string {
	switch t := task.(type) {
	case *LoadTask:
		if t.Table != nil {
			return fmt.Sprintf("%s -> %s", t.Path, *t.Table)
		}
		return t.Path
	case *ExecuteTask:
		if t.Table != nil {
			return *t.Table
		}
		return ""
	case *ExtractTask:
		return t.Path
	}
	return ""
}

// PrintableSchedule prints the upcoming runs of a pipeline.
type PrintableSchedule struct {
	Items []ScheduledRun
}

type ScheduledRun struct {
	Pipeline string `json:"pipeline"`
	Cron     string `json:"cron"`
	NextRun  string `json:"next_run"`
}

func (p PrintableSchedule) GetItems(_ *sanitize.Sanitizer) any {
	return p.Items
}

func (p PrintableSchedule) GetTable() (Table, error) {
	var rows []TableRow
	for _, item := range p.Items {
		rows = append(rows, TableRow{Cells: []any{item.Pipeline, item.Cron, item.NextRun}})
	}
	return Table{
		Rows: rows,
		Columns: []TableColumnDefinition{
			{Name: "PIPELINE", Type: "string"},
			{Name: "CRON", Type: "string"},
			{Name: "NEXT_RUN", Type: "string"},
		},
	}, nil
}

// Program is the rendered scheduler program of a pipeline.
type Program struct {
	Pipeline string `json:"pipeline"`
	Source   string `json:"source"`
}

func (p Program) String() string {
	return p.Source
}

type PrintableProgram struct {
	Items []Program
}

func (p PrintableProgram) GetItems(_ *sanitize.Sanitizer) any {
	items := make([]fmt.Stringer, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, item)
	}
	return items
}

func (p PrintableProgram) GetTable() (Table, error) {
	var rows []TableRow
	for _, item := range p.Items {
		rows = append(rows, TableRow{Cells: []any{item.Pipeline, item.Source}})
	}
	return Table{
		Rows: rows,
		Columns: []TableColumnDefinition{
			{Name: "PIPELINE", Type: "string"},
			{Name: "PROGRAM", Type: "string"},
		},
	}, nil
}
