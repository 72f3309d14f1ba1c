package registry

import (
	"context"

	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/store"
	"github.com/turbot/bqpipe/internal/types"
)

// SQLRegistry persists pipelines through the store package.
type SQLRegistry struct {
	store *store.Store
}

func NewSQLRegistry(driver, dsn string) (*SQLRegistry, error) {
	s, err := store.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return &SQLRegistry{store: s}, nil
}

func (r *SQLRegistry) Set(ctx context.Context, name string, spec *types.PipelineSpec) error {
	if name == "" {
		return perr.ConfigurationErrorWithMessage("pipeline name is required")
	}
	return r.store.SavePipeline(ctx, name, spec)
}

func (r *SQLRegistry) Get(ctx context.Context, name string) (*types.PipelineSpec, error) {
	return r.store.LoadPipeline(ctx, name)
}

func (r *SQLRegistry) List(ctx context.Context) ([]*types.PipelineSpec, error) {
	return r.store.ListPipelines(ctx)
}

func (r *SQLRegistry) Delete(ctx context.Context, name string) error {
	return r.store.DeletePipeline(ctx, name)
}

func (r *SQLRegistry) Close() error {
	return r.store.Close()
}
