package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the relay's runtime configuration.
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Auth struct {
		Secret   string        `mapstructure:"secret"`
		TokenTTL time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`
	Sweep struct {
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"sweep"`
	Storage struct {
		Backend  string `mapstructure:"backend"` // "memory" or "mysql"
		MysqlDSN string `mapstructure:"mysql_dsn"`
	} `mapstructure:"storage"`
	Redis struct {
		Enabled bool   `mapstructure:"enabled"`
		Addr    string `mapstructure:"addr"`
	} `mapstructure:"redis"`
}

// Load reads configuration from an optional YAML file and the environment.
// Environment variables use the WHITEBOARD_ prefix with underscores, e.g.
// WHITEBOARD_SERVER_ADDR. A missing config file is only an error when a path
// was given explicitly.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8081")
	v.SetDefault("auth.secret", "dev-secret")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("sweep.interval", 30*time.Second)
	v.SetDefault("storage.backend", "memory")
	// AutomaticEnv only surfaces keys viper already knows, so even empty
	// defaults must be registered for env overrides to land.
	v.SetDefault("storage.mysql_dsn", "")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")

	v.SetEnvPrefix("WHITEBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	} else {
		v.SetConfigName("whiteboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
