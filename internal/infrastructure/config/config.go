// Package config loads the application configuration from file and
// environment using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	sharedConfig "lucerna/internal/shared/config"
	"lucerna/internal/shared/errors"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Auth      sharedConfig.AuthConfig      `mapstructure:"auth"`
	OAuth     sharedConfig.OAuthConfig     `mapstructure:"oauth"`
	Email     sharedConfig.EmailConfig     `mapstructure:"email"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit"`
}

// Load reads configuration from ./configs/config.yaml (and parents) with
// LUCERNA_-prefixed environment variables taking precedence. The returned
// config is fully constructed and should be passed down by injection; there
// is no package-level cached instance.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("LUCERNA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is acceptable when env vars carry the config.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config, env); err != nil {
		return nil, err
	}

	return &config, nil
}

// validate enforces the required settings. Missing required configuration is
// fatal in production; elsewhere it surfaces as an internal error so local
// tooling can report it instead of crashing.
func validate(config *Config, env string) error {
	if config.Auth.JWT.Secret == "" {
		if env == "production" {
			return fmt.Errorf("invalid server configuration: auth.jwt.secret is required")
		}
		return errors.NewInternalError("Invalid server configuration", "auth.jwt.secret is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "lucerna_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Auth defaults. The secret default is empty but must be registered so
	// the env override is visible to Unmarshal.
	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.password.bcrypt_cost", 12)
	v.SetDefault("auth.jwt.access_exp_minutes", 30)
	v.SetDefault("auth.jwt.refresh_exp_days", 30)
	v.SetDefault("auth.jwt.reset_password_exp_minutes", 10)
	v.SetDefault("auth.jwt.verify_email_exp_minutes", 10)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests", 20)
	v.SetDefault("ratelimit.window_seconds", 60)
}
