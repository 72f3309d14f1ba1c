package config

import (
	"maps"

	"github.com/spf13/viper"
	"github.com/turbot/bqpipe/internal/constants"
	"github.com/turbot/go-kit/files"
)

// Config is the configuration for a compile session.
type Config struct {
	// RegistryDriver is the database/sql driver backing the registry, or "memory".
	RegistryDriver string `json:"registry_driver"`
	// RegistryDSN is the data source name handed to the driver.
	RegistryDSN string `json:"registry_dsn"`
	// RedactFields are removed from log output and printed documents.
	RedactFields []string `json:"redact_fields,omitempty"`
	// Environment resolves document variables.
	Environment map[string]any `json:"-"`
}

// ConfigOption is a function that modifies a Config instance.
type ConfigOption func(*Config) error

// NewConfig creates a new Config from the viper defaults and the given options.
func NewConfig(opts ...ConfigOption) (*Config, error) {
	dsn, err := files.Tildefy(viper.GetString(constants.ConfigKeyRegistryDSN))
	if err != nil {
		return nil, err
	}

	c := &Config{
		RegistryDriver: viper.GetString(constants.ConfigKeyRegistryDriver),
		RegistryDSN:    dsn,
		RedactFields:   viper.GetStringSlice(constants.ConfigKeyRedactFields),
		Environment:    map[string]any{},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return c, err
		}
	}

	return c, nil
}

// WithRegistry returns a ConfigOption that sets the registry backend.
func WithRegistry(driver, dsn string) ConfigOption {
	return func(c *Config) error {
		if driver != "" {
			c.RegistryDriver = driver
		}
		if dsn == "" {
			return nil
		}
		expanded, err := files.Tildefy(dsn)
		if err != nil {
			return err
		}
		c.RegistryDSN = expanded
		return nil
	}
}

// WithEnvironment returns a ConfigOption that adds document variables.
func WithEnvironment(env map[string]any) ConfigOption {
	return func(c *Config) error {
		maps.Copy(c.Environment, env)
		return nil
	}
}

func WithRedactFields(fields ...string) ConfigOption {
	return func(c *Config) error {
		c.RedactFields = append(c.RedactFields, fields...)
		return nil
	}
}
