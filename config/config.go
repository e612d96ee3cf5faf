package config

import (
	"errors"
	"strings"

	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps config keys onto environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup installs the defaults, binds the environment and reads the config
// file when there is one.
func Setup() error {
	viper.SetConfigName(constant.Episodl)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Episodl)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return err
	}
	return nil
}

// Write persists the current settings, creating the config file when missing.
func Write() error {
	var notFound viper.ConfigFileNotFoundError
	err := viper.WriteConfig()
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}
	return err
}
