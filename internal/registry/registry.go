package registry

import (
	"context"

	"github.com/turbot/bqpipe/internal/constants"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/store"
	"github.com/turbot/bqpipe/internal/types"
)

const DriverMemory = "memory"

// Registry maps pipeline names to compiled pipelines. Set overwrites.
type Registry interface {
	Set(ctx context.Context, name string, spec *types.PipelineSpec) error
	Get(ctx context.Context, name string) (*types.PipelineSpec, error)
	List(ctx context.Context) ([]*types.PipelineSpec, error)
	// Delete removes name. Deleting an unknown name is not an error.
	Delete(ctx context.Context, name string) error
	Close() error
}

// Open returns the registry backend for driver.
func Open(driver, dsn string) (Registry, error) {
	switch driver {
	case DriverMemory:
		r, err := NewMemoryRegistry()
		if err != nil {
			return nil, err
		}
		return r, nil
	case "":
		driver = constants.DefaultRegistryDriver
	}

	switch driver {
	case store.DriverSqlite, store.DriverPostgres, store.DriverDuckDB:
		r, err := NewSQLRegistry(driver, dsn)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, perr.ConfigurationErrorWithMessage("unsupported registry driver: " + driver)
}
