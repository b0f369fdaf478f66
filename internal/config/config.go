package config

import (
	"fmt"
	"time"

	"github.com/hotrecharge/hotrecharge-go/internal/service"
	"github.com/spf13/viper"
)

type Config struct {
	Credentials Credentials        `mapstructure:"credentials"`
	API         API                `mapstructure:"api"`
	Zesa        service.ZesaConfig `mapstructure:"zesa"`
}

type Credentials struct {
	AccessCode     string `mapstructure:"access_code"`
	AccessPassword string `mapstructure:"access_password"`
	Reference      string `mapstructure:"reference"`
}

type API struct {
	BaseURL              string        `mapstructure:"base_url"`
	Timeout              time.Duration `mapstructure:"timeout"`
	UseRandomRef         bool          `mapstructure:"use_random_ref"`
	ValidateTargetNumber bool          `mapstructure:"validate_target_number"`
	EnforceMessageLimit  bool          `mapstructure:"enforce_message_limit"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
