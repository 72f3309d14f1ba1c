package airflow

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/schedule"
	"github.com/turbot/bqpipe/internal/types"
)

const imports = `from airflow import DAG
from airflow.operators.bash_operator import BashOperator
from bqpipe.operators.bq_load_operator import BigQueryLoadOperator
from bqpipe.operators.bq_execute_operator import ExecuteOperator
from bqpipe.operators.bq_extract_operator import BigQueryExtractOperator
from datetime import timedelta
from pytz import timezone
import datetime
`

const defaultArgsFormat = `
    'owner': 'Datalab',
    'depends_on_past': False,
    'email': [%s],
    'start_date': %s,
    'end_date': %s,
    'email_on_failure': True,
    'email_on_retry': False,
    'retries': 1,
    'retry_delay': timedelta(minutes=1),
`

const pythonDateLayout = "2006-01-02T15:04:05Z"

var operatorClassnames = map[string]string{
	string(types.TaskLoad):    "BigQueryLoadOperator",
	string(types.TaskExecute): "ExecuteOperator",
	string(types.TaskExtract): "BigQueryExtractOperator",
	"bq":                      "BigQueryOperator",
}

// Render returns the Airflow DAG program for a compiled pipeline.
func Render(spec *types.PipelineSpec) (string, error) {
	if spec == nil {
		return "", perr.InternalWithMessage("no pipeline to render")
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(imports)
	sb.WriteString("\n")

	defaultArgs, err := defaultArgsDefinition(spec)
	if err != nil {
		return "", err
	}
	sb.WriteString("default_args = {")
	sb.WriteString(defaultArgs)
	sb.WriteString("}\n\n")

	interval := ""
	if spec.Schedule != nil && spec.Schedule.Interval != "" {
		interval, err = schedule.ToCron(spec.Name, spec.Schedule.Interval)
		if err != nil {
			return "", err
		}
	}
	var extra map[string]any
	if spec.Schedule != nil {
		extra = spec.Schedule.Extra
	}
	dag, err := dagDefinition(spec.Name, interval, extra)
	if err != nil {
		return "", err
	}
	sb.WriteString(dag)

	names := spec.TaskNames()
	for _, name := range names {
		def, err := OperatorDefinition(string(name), spec.Tasks[name])
		if err != nil {
			return "", err
		}
		sb.WriteString(def)
	}

	for _, name := range names {
		upStream := spec.Tasks[name].GetUpStream()
		ups := make([]string, 0, len(upStream))
		for _, up := range upStream {
			ups = append(ups, string(up))
		}
		sb.WriteString(DependencyDefinition(string(name), ups))
	}

	return sb.String(), nil
}

func defaultArgsDefinition(spec *types.PipelineSpec) (string, error) {
	start, end := "None", "None"
	if spec.Schedule != nil {
		var err error
		if start, err = datetimeExpr(spec.Schedule.StartDate); err != nil {
			return "", err
		}
		if end, err = datetimeExpr(spec.Schedule.EndDate); err != nil {
			return "", err
		}
	}

	addresses := types.SplitEmail(spec.Email)
	emails := make([]string, 0, len(addresses))
	for _, a := range addresses {
		emails = append(emails, pyString(a))
	}
	return fmt.Sprintf(defaultArgsFormat, strings.Join(emails, ", "), start, end), nil
}

// dagDefinition renders the DAG constructor. Schedule keys beyond the dates and
// the interval are passed on as keyword arguments, sorted by name.
func dagDefinition(name, interval string, extra map[string]any) (string, error) {
	pyInterval := "None"
	if interval != "" {
		pyInterval = pyString(interval)
	}

	args := []string{"dag_id=" + pyString(name), "schedule_interval=" + pyInterval}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := pyValue(extra[k])
		if err != nil {
			return "", perr.InternalWithMessage(fmt.Sprintf("cannot render schedule.%s: %s", k, err.Error()))
		}
		args = append(args, k+"="+v)
	}
	args = append(args, "default_args=default_args")

	return fmt.Sprintf("dag = DAG(%s)\n\n", strings.Join(args, ", ")), nil
}

// DependencyDefinition returns one set_upstream line per upstream task.
func DependencyDefinition(name string, upStream []string) string {
	var sb strings.Builder
	for _, up := range upStream {
		fmt.Fprintf(&sb, "%s.set_upstream(%s)\n", name, up)
	}
	return sb.String()
}

// OperatorDefinition returns the operator assignment for a task, parameters
// sorted by name.
func OperatorDefinition(name string, task types.Task) (string, error) {
	params := task.GetParams()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := []string{"task_id=" + pyString(name+"_id")}
	for _, k := range keys {
		v, err := pyValue(params[k])
		if err != nil {
			return "", perr.InternalWithMessage(fmt.Sprintf("cannot render %s.%s: %s", name, k, err.Error()))
		}
		args = append(args, k+"="+v)
	}
	args = append(args, "dag=dag")

	return fmt.Sprintf("%s = %s(%s)\n", name, OperatorClassname(task.GetType()), strings.Join(args, ", ")), nil
}

// OperatorClassname maps a task type onto its operator class.
func OperatorClassname(taskType string) string {
	if name, ok := operatorClassnames[taskType]; ok {
		return name
	}
	if taskType == "" {
		return "Operator"
	}
	r := []rune(taskType)
	r[0] = unicode.ToUpper(r[0])
	return string(r) + "Operator"
}

func datetimeExpr(date string) (string, error) {
	if date == "" {
		return "None", nil
	}

	var t time.Time
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err = time.Parse(layout, date); err == nil {
			break
		}
	}
	if err != nil {
		return "", perr.ConfigurationErrorWithMessage("invalid schedule date: " + date)
	}

	return fmt.Sprintf("datetime.datetime.strptime(%s, '%%Y-%%m-%%dT%%H:%%M:%%SZ').replace(tzinfo=timezone('UTC'))",
		pyString(t.UTC().Format(pythonDateLayout))), nil
}

func pyString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}

func pyValue(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "None", nil
	case string:
		return pyString(value), nil
	case bool:
		if value {
			return "True", nil
		}
		return "False", nil
	case int:
		return strconv.Itoa(value), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case uint64:
		return strconv.FormatUint(value, 10), nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case json.Number:
		return value.String(), nil
	case []any:
		items := make([]string, 0, len(value))
		for _, item := range value {
			s, err := pyValue(item)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		items := make([]string, 0, len(keys))
		for _, k := range keys {
			s, err := pyValue(value[k])
			if err != nil {
				return "", err
			}
			items = append(items, pyString(k)+": "+s)
		}
		return "{" + strings.Join(items, ", ") + "}", nil
	}

	// structured values such as schemas and parameters render through their JSON form
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return "", err
	}
	return pyValue(generic)
}
