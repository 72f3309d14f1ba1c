package schedule

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

const (
	IntervalHourly = "hourly"
	IntervalDaily  = "daily"
	IntervalWeekly = "weekly"

	// IntervalOnce runs a pipeline a single time at its start date.
	IntervalOnce = "@once"
)

var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// distributedIndex maps id onto [0, max] so that pipelines sharing an interval
// do not all fire at the same minute.
func distributedIndex(id string, max int64) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int64(h.Sum32()) % (max + 1)
}

// IntervalToCronExpression converts the hourly, daily and weekly keywords into
// a cron expression distributed by id.
func IntervalToCronExpression(id, interval string) (string, error) {
	minuteCron := distributedIndex(id+"/minute", 59)
	hourCron := distributedIndex(id+"/hour", 23)
	dayCron := distributedIndex(id+"/day", 6)

	switch interval {
	case IntervalWeekly:
		return fmt.Sprintf("%d %d * * %d", minuteCron, hourCron, dayCron), nil
	case IntervalDaily:
		return fmt.Sprintf("%d %d * * *", minuteCron, hourCron), nil
	case IntervalHourly:
		return fmt.Sprintf("%d * * * *", minuteCron), nil
	}

	return "", perr.ConfigurationErrorWithMessage("invalid schedule interval: " + interval)
}

func DurationToCron(duration time.Duration) (string, error) {
	if duration <= 0 {
		return "", fmt.Errorf("duration must be positive")
	}
	if duration >= 24*time.Hour {
		return "", fmt.Errorf("duration must be less than 24 hours")
	}

	if duration%time.Hour == 0 {
		// Duration is in whole hours
		hours := duration / time.Hour
		return fmt.Sprintf("0 */%d * * *", hours), nil
	} else if duration%time.Minute == 0 {
		// Duration is in whole minutes
		minutes := duration / time.Minute
		return fmt.Sprintf("*/%d * * * *", minutes), nil
	}

	return "", fmt.Errorf("duration must be in whole minutes or hours")
}

// ToCron normalises a schedule interval into a cron expression or descriptor.
// Accepted forms are the interval keywords, Go durations under a day,
// descriptors such as @daily and standard five field cron expressions.
func ToCron(id, interval string) (string, error) {
	interval = strings.TrimSpace(interval)

	switch interval {
	case IntervalHourly, IntervalDaily, IntervalWeekly:
		return IntervalToCronExpression(id, interval)
	case IntervalOnce:
		return interval, nil
	}

	if d, err := time.ParseDuration(interval); err == nil {
		expr, err := DurationToCron(d)
		if err != nil {
			return "", perr.ConfigurationErrorWithMessage(fmt.Sprintf("invalid schedule interval %s: %s", interval, err.Error()))
		}
		return expr, nil
	}

	if _, err := cron.ParseStandard(interval); err != nil {
		slog.Debug("invalid cron expression", "interval", interval, "error", err)
		return "", perr.ConfigurationErrorWithMessage(fmt.Sprintf("invalid schedule interval %s: %s", interval, err.Error()))
	}
	return interval, nil
}

// Validate checks the dates and interval of a schedule. A nil schedule is valid.
func Validate(id string, spec *types.ScheduleSpec) error {
	if spec == nil {
		return nil
	}

	var start, end time.Time
	var err error
	if spec.StartDate != "" {
		if start, err = parseDate(spec.StartDate); err != nil {
			return perr.ConfigurationErrorWithMessage("invalid schedule start_date: " + spec.StartDate)
		}
	}
	if spec.EndDate != "" {
		if end, err = parseDate(spec.EndDate); err != nil {
			return perr.ConfigurationErrorWithMessage("invalid schedule end_date: " + spec.EndDate)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return perr.ConfigurationErrorWithMessage("schedule end_date is before start_date")
	}

	if spec.Interval != "" {
		if _, err := ToCron(id, spec.Interval); err != nil {
			return err
		}
	}
	return nil
}

// NextRuns returns up to count run times after from, honouring the schedule's
// start and end dates.
func NextRuns(id string, spec *types.ScheduleSpec, from time.Time, count int) ([]time.Time, error) {
	if spec == nil || spec.Interval == "" {
		return nil, nil
	}

	expr, err := ToCron(id, spec.Interval)
	if err != nil {
		return nil, err
	}

	if expr == IntervalOnce {
		return onceRun(spec, from, count)
	}

	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, perr.ConfigurationErrorWithMessage(err.Error())
	}

	if spec.StartDate != "" {
		start, err := parseDate(spec.StartDate)
		if err != nil {
			return nil, perr.ConfigurationErrorWithMessage("invalid schedule start_date: " + spec.StartDate)
		}
		// Next is exclusive, step back so a run at the start instant counts
		if start = start.Add(-time.Second); start.After(from) {
			from = start
		}
	}

	var end time.Time
	if spec.EndDate != "" {
		if end, err = parseDate(spec.EndDate); err != nil {
			return nil, perr.ConfigurationErrorWithMessage("invalid schedule end_date: " + spec.EndDate)
		}
	}

	var runs []time.Time
	next := from
	for len(runs) < count {
		next = sched.Next(next)
		if next.IsZero() || (!end.IsZero() && next.After(end)) {
			break
		}
		runs = append(runs, next)
	}
	return runs, nil
}

// onceRun returns the start date when it is still ahead of from.
func onceRun(spec *types.ScheduleSpec, from time.Time, count int) ([]time.Time, error) {
	if spec.StartDate == "" || count < 1 {
		return nil, nil
	}
	start, err := parseDate(spec.StartDate)
	if err != nil {
		return nil, perr.ConfigurationErrorWithMessage("invalid schedule start_date: " + spec.StartDate)
	}
	if !start.After(from) {
		return nil, nil
	}
	return []time.Time{start}, nil
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
