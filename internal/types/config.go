package types

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// Document is a user authored pipeline description before compilation.
type Document struct {
	Email          string                `json:"email" yaml:"email" mapstructure:"email" validate:"required"`
	Schedule       *ScheduleSpec         `json:"schedule,omitempty" yaml:"schedule" mapstructure:"schedule"`
	Input          *InputConfig          `json:"input,omitempty" yaml:"input" mapstructure:"input"`
	Transformation *TransformationConfig `json:"transformation,omitempty" yaml:"transformation" mapstructure:"transformation"`
	Output         *OutputConfig         `json:"output,omitempty" yaml:"output" mapstructure:"output"`
}

// SplitEmail returns the addresses of a comma separated email list.
func SplitEmail(email string) []string {
	var addresses []string
	for _, a := range strings.Split(email, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}
	return addresses
}

// ScheduleSpec is passed through to the scheduler untouched. Keys other than
// the dates and the interval are kept in Extra.
type ScheduleSpec struct {
	StartDate string         `json:"start_date,omitempty" yaml:"start_date" mapstructure:"start_date"`
	EndDate   string         `json:"end_date,omitempty" yaml:"end_date" mapstructure:"end_date"`
	Interval  string         `json:"schedule_interval,omitempty" yaml:"schedule_interval" mapstructure:"schedule_interval"`
	Extra     map[string]any `json:"-" yaml:"-" mapstructure:",remain"`
}

const (
	scheduleKeyStartDate = "start_date"
	scheduleKeyEndDate   = "end_date"
	scheduleKeyInterval  = "schedule_interval"
)

func (s ScheduleSpec) MarshalJSON() ([]byte, error) {
	res := make(map[string]any, len(s.Extra)+3)
	maps.Copy(res, s.Extra)
	if s.StartDate != "" {
		res[scheduleKeyStartDate] = s.StartDate
	}
	if s.EndDate != "" {
		res[scheduleKeyEndDate] = s.EndDate
	}
	if s.Interval != "" {
		res[scheduleKeyInterval] = s.Interval
	}
	return json.Marshal(res)
}

func (s *ScheduleSpec) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := map[string]*string{
		scheduleKeyStartDate: &s.StartDate,
		scheduleKeyEndDate:   &s.EndDate,
		scheduleKeyInterval:  &s.Interval,
	}
	for key, field := range fields {
		v, ok := raw[key]
		if !ok {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("schedule %s must be a string", key)
		}
		*field = str
		delete(raw, key)
	}

	if len(raw) > 0 {
		s.Extra = raw
	}
	return nil
}

// InputConfig describes the files to load. A nil field was not given.
type InputConfig struct {
	Path   *string      `json:"path,omitempty" mapstructure:"path"`
	Table  *string      `json:"table,omitempty" mapstructure:"table"`
	Schema []TableField `json:"schema,omitempty" mapstructure:"schema"`

	Format    *string `json:"format,omitempty" mapstructure:"format"`
	Delimiter *string `json:"delimiter,omitempty" mapstructure:"delimiter"`
	Quote     *string `json:"quote,omitempty" mapstructure:"quote"`
	Skip      *int    `json:"skip,omitempty" mapstructure:"skip"`
	Strict    *bool   `json:"strict,omitempty" mapstructure:"strict"`
}

// HasFileOptions reports whether any option that only applies to a file load was given.
func (i *InputConfig) HasFileOptions() bool {
	return i.Format != nil || i.Delimiter != nil || i.Quote != nil || i.Skip != nil || i.Strict != nil
}

type TransformationConfig struct {
	Query *string `json:"query,omitempty" mapstructure:"query"`
	Large *bool   `json:"large,omitempty" mapstructure:"large"`
	Mode  *string `json:"mode,omitempty" mapstructure:"mode"`

	// Parameters holds the raw parameter list, compiled by the params package.
	Parameters []any `json:"parameters,omitempty" mapstructure:"parameters"`
}

func (t *TransformationConfig) HasQueryOptions() bool {
	return t.Large != nil || t.Mode != nil || t.Parameters != nil
}

type OutputConfig struct {
	Table *string `json:"table,omitempty" mapstructure:"table"`
	Path  *string `json:"path,omitempty" mapstructure:"path"`

	Billing   *int    `json:"billing,omitempty" mapstructure:"billing"`
	Compress  *bool   `json:"compress,omitempty" mapstructure:"compress"`
	Delimiter *string `json:"delimiter,omitempty" mapstructure:"delimiter"`
	Header    *bool   `json:"header,omitempty" mapstructure:"header"`
	Format    *string `json:"format,omitempty" mapstructure:"format"`
}

func (o *OutputConfig) HasFileOptions() bool {
	return o.Compress != nil || o.Delimiter != nil || o.Format != nil || o.Header != nil
}

// TableField is one column of a warehouse table schema.
type TableField struct {
	Name        string       `json:"name" mapstructure:"name"`
	Type        string       `json:"type" mapstructure:"type"`
	Mode        string       `json:"mode,omitempty" mapstructure:"mode"`
	Description string       `json:"description,omitempty" mapstructure:"description"`
	Fields      []TableField `json:"fields,omitempty" mapstructure:"fields"`
}
