package types

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/turbot/bqpipe/internal/perr"
)

type TaskName string

const (
	TaskLoad    TaskName = "load"
	TaskExecute TaskName = "execute"
	TaskExtract TaskName = "extract"
)

// TaskOrder is the fixed stage order of a compiled pipeline.
var TaskOrder = []TaskName{TaskLoad, TaskExecute, TaskExtract}

// PipelineSpec is a compiled pipeline: a named, scheduled task graph.
type PipelineSpec struct {
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Schedule *ScheduleSpec     `json:"schedule"`
	Tasks    map[TaskName]Task `json:"tasks"`
}

// TaskNames returns the names of the tasks present in the spec, in stage order.
// Task types outside the well-known stages are appended alphabetically.
func (p *PipelineSpec) TaskNames() []TaskName {
	names := []TaskName{}
	for _, n := range TaskOrder {
		if _, ok := p.Tasks[n]; ok {
			names = append(names, n)
		}
	}

	var extra []string
	for n := range p.Tasks {
		if n != TaskLoad && n != TaskExecute && n != TaskExtract {
			extra = append(extra, string(n))
		}
	}
	sort.Strings(extra)
	for _, n := range extra {
		names = append(names, TaskName(n))
	}
	return names
}

// Validate checks that every up_stream edge points at a task of the same spec.
func (p *PipelineSpec) Validate() error {
	if p.Name == "" {
		return perr.ConfigurationErrorWithMessage("pipeline name is required")
	}
	if len(p.Tasks) == 0 {
		return perr.ConfigurationErrorWithMessage("pipeline has no tasks to execute")
	}
	for name, task := range p.Tasks {
		for _, up := range task.GetUpStream() {
			if _, ok := p.Tasks[up]; !ok {
				return perr.ConfigurationErrorWithMessage(fmt.Sprintf("task %s depends on unknown task %s", name, up))
			}
			if up == name {
				return perr.ConfigurationErrorWithMessage(fmt.Sprintf("task %s depends on itself", name))
			}
		}
	}
	return nil
}

func (p *PipelineSpec) UnmarshalJSON(data []byte) error {
	type Aux struct {
		Name     string                     `json:"name"`
		Email    string                     `json:"email"`
		Schedule *ScheduleSpec              `json:"schedule"`
		Tasks    map[string]json.RawMessage `json:"tasks"`
	}

	var aux Aux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.Name = aux.Name
	p.Email = aux.Email
	p.Schedule = aux.Schedule
	p.Tasks = make(map[TaskName]Task, len(aux.Tasks))

	for name, raw := range aux.Tasks {
		var header TaskBase
		if err := json.Unmarshal(raw, &header); err != nil {
			return err
		}

		var task Task
		switch header.Type {
		case string(TaskLoad):
			task = &LoadTask{}
		case string(TaskExecute):
			task = &ExecuteTask{}
		case string(TaskExtract):
			task = &ExtractTask{}
		default:
			return perr.ConfigurationErrorWithMessage("unsupported task type: " + header.Type)
		}

		if err := json.Unmarshal(raw, task); err != nil {
			return err
		}
		task.setName(TaskName(name))
		p.Tasks[TaskName(name)] = task
	}

	return nil
}

// Task is a node of the compiled task graph.
type Task interface {
	GetName() TaskName
	GetType() string
	GetUpStream() []TaskName
	SetUpStream(...TaskName)
	// GetParams returns the stage specific fields, keyed by their serialised name.
	GetParams() map[string]any

	setName(TaskName)
}

type TaskBase struct {
	Name     TaskName   `json:"-"`
	Type     string     `json:"type"`
	UpStream []TaskName `json:"up_stream"`
}

func (t *TaskBase) GetName() TaskName {
	return t.Name
}

func (t *TaskBase) setName(name TaskName) {
	t.Name = name
}

func (t *TaskBase) GetType() string {
	return t.Type
}

func (t *TaskBase) GetUpStream() []TaskName {
	return t.UpStream
}

func (t *TaskBase) SetUpStream(names ...TaskName) {
	t.UpStream = append([]TaskName{}, names...)
}

func newTaskBase(name TaskName) TaskBase {
	return TaskBase{
		Name:     name,
		Type:     string(name),
		UpStream: []TaskName{},
	}
}

// LoadTask imports external files into a warehouse table.
type LoadTask struct {
	TaskBase

	Path   string       `json:"path"`
	Table  *string      `json:"table,omitempty"`
	Schema []TableField `json:"schema,omitempty"`
	// Mode is only set when the load targets a table.
	Mode *string `json:"mode,omitempty"`

	Format    string `json:"format"`
	Delimiter string `json:"delimiter"`
	Quote     string `json:"quote"`
	Skip      int    `json:"skip"`
	Strict    bool   `json:"strict"`
}

func NewLoadTask() *LoadTask {
	return &LoadTask{TaskBase: newTaskBase(TaskLoad)}
}

func (t *LoadTask) GetParams() map[string]any {
	params := map[string]any{
		"path":      t.Path,
		"format":    t.Format,
		"delimiter": t.Delimiter,
		"quote":     t.Quote,
		"skip":      t.Skip,
		"strict":    t.Strict,
	}
	if t.Table != nil {
		params["table"] = *t.Table
	}
	if t.Schema != nil {
		params["schema"] = t.Schema
	}
	if t.Mode != nil {
		params["mode"] = *t.Mode
	}
	return params
}

// ExecuteTask runs a transformation query.
type ExecuteTask struct {
	TaskBase

	Query      string           `json:"query"`
	Large      bool             `json:"large"`
	Mode       string           `json:"mode"`
	Table      *string          `json:"table,omitempty"`
	Parameters []QueryParameter `json:"parameters,omitempty"`
	Billing    *int             `json:"billing,omitempty"`
}

func NewExecuteTask() *ExecuteTask {
	return &ExecuteTask{TaskBase: newTaskBase(TaskExecute)}
}

func (t *ExecuteTask) GetParams() map[string]any {
	params := map[string]any{
		"query": t.Query,
		"large": t.Large,
		"mode":  t.Mode,
	}
	if t.Table != nil {
		params["table"] = *t.Table
	}
	if len(t.Parameters) > 0 {
		params["parameters"] = t.Parameters
	}
	if t.Billing != nil {
		params["billing"] = *t.Billing
	}
	return params
}

// ExtractTask exports query results to external storage.
type ExtractTask struct {
	TaskBase

	Path string `json:"path"`
	// Table is the source table, only set when no execute task exists.
	Table     *string `json:"table,omitempty"`
	Billing   *int    `json:"billing"`
	Compress  bool    `json:"compress"`
	Delimiter string  `json:"delimiter"`
	Header    bool    `json:"header"`
	Format    string  `json:"format"`
}

func NewExtractTask() *ExtractTask {
	return &ExtractTask{TaskBase: newTaskBase(TaskExtract)}
}

func (t *ExtractTask) GetParams() map[string]any {
	params := map[string]any{
		"path":      t.Path,
		"billing":   nil,
		"compress":  t.Compress,
		"delimiter": t.Delimiter,
		"header":    t.Header,
		"format":    t.Format,
	}
	if t.Billing != nil {
		params["billing"] = *t.Billing
	}
	if t.Table != nil {
		params["table"] = *t.Table
	}
	return params
}
