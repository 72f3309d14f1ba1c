package config

import "context"

// ConfigContextKey is the key used to store the config in the context.
type ConfigContextKey struct{}

// Get returns the config from the context.
func Get(ctx context.Context) *Config {
	if v := ctx.Value(ConfigContextKey{}); v != nil {
		return v.(*Config)
	}
	panic("No config in context")
}

// Set returns a new context carrying the config.
func Set(ctx context.Context, c *Config) context.Context {
	return context.WithValue(ctx, ConfigContextKey{}, c)
}
