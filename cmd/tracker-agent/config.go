package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/EternisAI/bot-tracker/internal/client"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log     LogConfig
	Tracker TrackerConfig
}

type TrackerConfig struct {
	ServerURL         string        `mapstructure:"server_url" validate:"required,url"`
	InstanceID        string        `mapstructure:"instance_id"`
	Owner             string        `mapstructure:"owner"`
	Version           string        `mapstructure:"version"`
	UserCount         int           `mapstructure:"user_count" validate:"gte=0"`
	GroupCount        int           `mapstructure:"group_count" validate:"gte=0"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval" validate:"gt=0"`
}

var config Config

func loadConfig(v *viper.Viper) (Config, error) {
	var cfg Config

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func InitConfig() {
	var err error

	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("application")
	v.AddConfigPath(".")
	v.AddConfigPath("./cmd/tracker-agent")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "INFO")
	v.SetDefault("tracker.server_url", "http://localhost:3000")
	v.SetDefault("tracker.instance_id", "")
	v.SetDefault("tracker.owner", "")
	v.SetDefault("tracker.version", "")
	v.SetDefault("tracker.user_count", 0)
	v.SetDefault("tracker.group_count", 0)
	v.SetDefault("tracker.heartbeat_interval", client.DefaultHeartbeatInterval)

	config, err = loadConfig(v)
	if err != nil {
		panic(err)
	}

	initLogger(config.Log.Level)

	if config.Tracker.InstanceID == "" {
		config.Tracker.InstanceID = uuid.NewString()
		slog.Warn("No instance_id configured, generated one for this run", "instance_id", config.Tracker.InstanceID)
	}
}
