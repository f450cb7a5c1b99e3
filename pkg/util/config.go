package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ReadConfig loads config.yaml from dir (when present) and binds environment variables.
// A missing config file is not an error; defaults and env still apply.
func ReadConfig(dir string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if dir == "" {
		dir = "./data/"
	}
	viper.AddConfigPath(dir)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}
