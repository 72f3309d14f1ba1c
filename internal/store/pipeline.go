package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

// SavePipeline writes the spec under its name, replacing any previous version.
func (s *Store) SavePipeline(ctx context.Context, name string, spec *types.PipelineSpec) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return perr.InternalWithMessage("error serialising pipeline " + err.Error())
	}

	_, err = s.db.ExecContext(ctx,
		`insert into pipeline (name, spec, updated_at) values ($1, $2, $3)
		on conflict (name) do update set spec = excluded.spec, updated_at = excluded.updated_at`,
		name, string(data), time.Now().UTC())
	if err != nil {
		slog.Error("error saving pipeline", "pipeline", name, "error", err)
		return perr.InternalWithMessage("error saving pipeline " + err.Error())
	}
	return nil
}

// LoadPipeline reads the spec registered under name.
func (s *Store) LoadPipeline(ctx context.Context, name string) (*types.PipelineSpec, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `select spec from pipeline where name = $1`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, perr.NotFoundWithMessage("pipeline " + name + " not found")
	}
	if err != nil {
		slog.Error("error loading pipeline", "pipeline", name, "error", err)
		return nil, perr.InternalWithMessage("error loading pipeline " + err.Error())
	}

	return decodeSpec(name, data)
}

// ListPipelines returns every stored spec ordered by name.
func (s *Store) ListPipelines(ctx context.Context) ([]*types.PipelineSpec, error) {
	rows, err := s.db.QueryContext(ctx, `select name, spec from pipeline order by name`)
	if err != nil {
		slog.Error("error listing pipelines", "error", err)
		return nil, perr.InternalWithMessage("error listing pipelines " + err.Error())
	}
	defer rows.Close()

	var specs []*types.PipelineSpec
	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			return nil, perr.InternalWithMessage("error reading pipeline row " + err.Error())
		}
		spec, err := decodeSpec(name, data)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	if err := rows.Err(); err != nil {
		return nil, perr.InternalWithMessage("error listing pipelines " + err.Error())
	}
	return specs, nil
}

// DeletePipeline removes a stored spec. Deleting an unknown name is not an error.
func (s *Store) DeletePipeline(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `delete from pipeline where name = $1`, name)
	if err != nil {
		return perr.InternalWithMessage("error deleting pipeline " + err.Error())
	}
	return nil
}

func decodeSpec(name, data string) (*types.PipelineSpec, error) {
	spec := &types.PipelineSpec{}
	if err := json.Unmarshal([]byte(data), spec); err != nil {
		slog.Error("stored pipeline is corrupt", "pipeline", name, "error", err)
		return nil, perr.InternalWithMessage("stored pipeline " + name + " is corrupt")
	}
	return spec, nil
}
