package config

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/turbot/bqpipe/internal/constants"
)

// Initialize sets the configuration defaults. Every key can be overridden from
// the environment, e.g. registry.dsn becomes BQPIPE_REGISTRY_DSN.
func Initialize() {
	viper.SetDefault(constants.ConfigKeyRegistryDriver, constants.DefaultRegistryDriver)
	viper.SetDefault(constants.ConfigKeyRegistryDSN, constants.DefaultRegistryDSN)
	viper.SetDefault(constants.ConfigKeyOutput, constants.DefaultOutput)
	viper.SetDefault(constants.ConfigKeyRedactFields, []string{})

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}
