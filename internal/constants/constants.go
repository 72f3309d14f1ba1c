package constants

import "log/slog"

const (
	AppName   = "bqpipe"
	EnvPrefix = "BQPIPE"

	EnvLogLevel = "BQPIPE_LOG_LEVEL"

	DefaultRegistryDriver = "sqlite3"
	DefaultRegistryDSN    = "~/.bqpipe/registry.db"
	DefaultOutput         = "table"

	DefaultScheduleCount = 3

	// document formats
	FormatYaml = "yaml"
	FormatHcl  = "hcl"
)

const (
	LogLevelTrace = slog.Level(-8)
	LogLevelOff   = slog.Level(-16)
)

// config keys
const (
	ConfigKeyRegistryDriver = "registry.driver"
	ConfigKeyRegistryDSN    = "registry.dsn"
	ConfigKeyOutput         = "output"
	ConfigKeyRedactFields   = "log.redact_fields"
)
