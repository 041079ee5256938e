package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type StorageConfig struct {
	// DataFile holds both patient and consultation records.
	DataFile string `mapstructure:"data_file"`
	// ActionLog is the append-only mutation log.
	ActionLog string `mapstructure:"action_log"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads config.yaml from the working directory or ./config,
// with CABINET_* environment variables taking precedence. A missing file
// falls back to defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("storage.data_file", "data/cabinet.json")
	v.SetDefault("storage.action_log", "logs.txt")
	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix("CABINET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
