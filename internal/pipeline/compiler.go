package pipeline

import (
	"context"
	"log/slog"

	"github.com/turbot/bqpipe/internal/document"
	"github.com/turbot/bqpipe/internal/registry"
	"github.com/turbot/bqpipe/internal/types"
)

// Compiler parses pipeline documents, assembles them and registers the result.
type Compiler struct {
	registry registry.Registry
	env      document.Environment
}

type CompilerOption func(*Compiler)

// WithEnvironment sets the values document variables resolve against.
func WithEnvironment(env document.Environment) CompilerOption {
	return func(c *Compiler) {
		c.env = env
	}
}

func NewCompiler(reg registry.Registry, opts ...CompilerOption) *Compiler {
	c := &Compiler{
		registry: reg,
		env:      document.Environment{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles body under name. The registry is only written when every
// stage succeeded.
func (c *Compiler) Compile(ctx context.Context, name string, body []byte, format string, opts ...AssembleOption) (*types.PipelineSpec, error) {
	doc, err := document.Parse(body, format, c.env)
	if err != nil {
		return nil, err
	}

	spec, err := Assemble(name, doc, opts...)
	if err != nil {
		return nil, err
	}

	if err := c.registry.Set(ctx, name, spec); err != nil {
		return nil, err
	}

	slog.Info("pipeline registered", "pipeline", name)
	return spec, nil
}

// Lookup returns a previously compiled pipeline.
func (c *Compiler) Lookup(ctx context.Context, name string) (*types.PipelineSpec, error) {
	return c.registry.Get(ctx, name)
}
