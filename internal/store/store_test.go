package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

func testSpec(name, query string) *types.PipelineSpec {
	execute := types.NewExecuteTask()
	execute.Query = query
	execute.Large = true
	execute.Mode = "create"

	return &types.PipelineSpec{
		Name:     name,
		Email:    "ops@example.com",
		Schedule: &types.ScheduleSpec{Interval: "@daily"},
		Tasks: map[types.TaskName]types.Task{
			types.TaskExecute: execute,
		},
	}
}

func TestSqliteStore(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	s, err := Open(DriverSqlite, filepath.Join(t.TempDir(), "nested", "registry.db"))
	require.NoError(err)
	defer s.Close()

	require.NoError(s.SavePipeline(ctx, "daily", testSpec("daily", "SELECT 1")))
	require.NoError(s.SavePipeline(ctx, "hourly", testSpec("hourly", "SELECT 2")))
	// last write wins
	require.NoError(s.SavePipeline(ctx, "daily", testSpec("daily", "SELECT 3")))

	got, err := s.LoadPipeline(ctx, "daily")
	require.NoError(err)
	if diff := cmp.Diff(testSpec("daily", "SELECT 3"), got); diff != "" {
		t.Errorf("pipeline mismatch (-want +got):\n%s", diff)
	}

	all, err := s.ListPipelines(ctx)
	require.NoError(err)
	assert.Len(all, 2)
	assert.Equal("daily", all[0].Name)
	assert.Equal("hourly", all[1].Name)

	require.NoError(s.DeletePipeline(ctx, "hourly"))
	_, err = s.LoadPipeline(ctx, "hourly")
	assert.True(perr.IsNotFound(err))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	assert := assert.New(t)

	_, err := Open("mysql", "user@/db")
	assert.True(perr.IsConfigurationError(err))
}

func TestStoreKeepsScheduleExtras(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	s, err := Open(DriverSqlite, filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(err)
	defer s.Close()

	spec := testSpec("backfill", "SELECT 1")
	spec.Schedule = &types.ScheduleSpec{
		StartDate: "2024-01-01",
		Interval:  "@once",
		Extra:     map[string]any{"catchup": false, "tags": []any{"daily"}},
	}
	require.NoError(s.SavePipeline(ctx, "backfill", spec))

	got, err := s.LoadPipeline(ctx, "backfill")
	require.NoError(err)
	if diff := cmp.Diff(spec.Schedule, got.Schedule); diff != "" {
		t.Errorf("schedule mismatch (-want +got):\n%s", diff)
	}
}
