// Package config loads the bot configuration from a config file and the
// environment, with env always winning.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram struct {
		Token string `mapstructure:"token" validate:"required"`
		Debug bool   `mapstructure:"debug"`
	} `mapstructure:"telegram"`

	// DB is optional: with an empty host the session snapshotter stays off
	// and the bot runs purely in memory.
	DB struct {
		Host         string        `mapstructure:"host"`
		Port         string        `mapstructure:"port"`
		User         string        `mapstructure:"user"`
		Password     string        `mapstructure:"password"`
		DBName       string        `mapstructure:"dbname"`
		SSLMode      string        `mapstructure:"sslmode"`
		MaxOpenConns int           `mapstructure:"max_open_conns" validate:"gte=1"`
		MaxIdleConns int           `mapstructure:"max_idle_conns" validate:"gte=1"`
		ConnLifetime time.Duration `mapstructure:"conn_lifetime"`
	} `mapstructure:"db"`

	Server struct {
		Port string `mapstructure:"port" validate:"required"`
	} `mapstructure:"server"`

	Snapshot struct {
		Interval time.Duration `mapstructure:"interval" validate:"gte=1s"`
	} `mapstructure:"snapshot"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	Development     bool          `mapstructure:"development"`
}

// SnapshotEnabled reports whether a snapshot database is configured.
func (c *Config) SnapshotEnabled() bool {
	return c.DB.Host != ""
}

// Load reads config.yaml (current dir, ./config, $HOME/.ets-bot) merged with
// environment variables, then validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.ets-bot")

	v.SetDefault("server.port", "8080")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_lifetime", 5*time.Minute)
	v.SetDefault("snapshot.interval", 30*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)

	v.SetEnvPrefix("ETSBOT")
	v.AutomaticEnv()
	// Env names: ETSBOT_TELEGRAM_TOKEN, ETSBOT_DB_HOST, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{
		"telegram.token", "telegram.debug",
		"db.host", "db.port", "db.user", "db.password", "db.dbname", "db.sslmode",
		"server.port", "snapshot.interval", "shutdown_timeout", "development",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything can come from env.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
