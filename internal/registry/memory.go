package registry

import (
	"context"
	"slices"
	"sync"

	"github.com/turbot/bqpipe/internal/cache"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

// MemoryRegistry keeps pipelines for the lifetime of the process.
type MemoryRegistry struct {
	cache *cache.InMemoryCache

	mu    sync.Mutex
	names []string
}

func NewMemoryRegistry() (*MemoryRegistry, error) {
	c, err := cache.NewInMemoryCache(nil)
	if err != nil {
		return nil, perr.Internal(err)
	}
	return &MemoryRegistry{cache: c}, nil
}

func (r *MemoryRegistry) Set(_ context.Context, name string, spec *types.PipelineSpec) error {
	if name == "" {
		return perr.ConfigurationErrorWithMessage("pipeline name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.cache.Set(name, spec) {
		return perr.InternalWithMessage("pipeline " + name + " was not registered")
	}
	if !slices.Contains(r.names, name) {
		r.names = append(r.names, name)
		slices.Sort(r.names)
	}
	return nil
}

func (r *MemoryRegistry) Get(_ context.Context, name string) (*types.PipelineSpec, error) {
	v, ok := r.cache.Get(name)
	if !ok {
		return nil, perr.NotFoundWithMessage("pipeline " + name + " not found")
	}

	spec, ok := v.(*types.PipelineSpec)
	if !ok {
		return nil, perr.InternalWithMessage("invalid registry entry for " + name)
	}
	return spec, nil
}

// List returns the registered pipelines ordered by name.
func (r *MemoryRegistry) List(ctx context.Context) ([]*types.PipelineSpec, error) {
	r.mu.Lock()
	names := slices.Clone(r.names)
	r.mu.Unlock()

	specs := make([]*types.PipelineSpec, 0, len(names))
	for _, name := range names {
		spec, err := r.Get(ctx, name)
		if perr.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (r *MemoryRegistry) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Delete(name)
	r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == name })
	return nil
}

func (r *MemoryRegistry) Close() error {
	r.cache.Close()
	return nil
}
