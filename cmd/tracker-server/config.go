package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EternisAI/bot-tracker/internal/api/http"
	"github.com/EternisAI/bot-tracker/internal/broadcasts"
	"github.com/EternisAI/bot-tracker/internal/instances"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// defaultOwnerKey is only a fallback, deployments are expected to set OWNER_KEY.
const defaultOwnerKey = "queenriam123"

type Config struct {
	Log       LogConfig
	Http      http.Config
	Cors      CorsConfig
	Broadcast BroadcastConfig
	Registry  RegistryConfig
}

type CorsConfig struct {
	AllowOrigins string `mapstructure:"allow_origins" validate:"required"`
}

type BroadcastConfig struct {
	OwnerKey string `mapstructure:"owner_key" json:"-" validate:"required"`
	Capacity int    `mapstructure:"capacity" validate:"gte=1"`
}

type RegistryConfig struct {
	ActiveWindow time.Duration `mapstructure:"active_window" validate:"gt=0"`
	Retention    time.Duration `mapstructure:"retention" validate:"gt=0"`
}

var config Config

func ParseCommaSeparated(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", LOG_LEVEL_INFO)
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.trusted_proxies", "")
	v.SetDefault("http.rate_limit.requests_per_second", 0)
	v.SetDefault("http.rate_limit.burst", 0)
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("broadcast.owner_key", defaultOwnerKey)
	v.SetDefault("broadcast.capacity", broadcasts.DefaultCapacity)
	v.SetDefault("registry.active_window", instances.DefaultActiveWindow)
	v.SetDefault("registry.retention", instances.DefaultRetention)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("application")
	v.AddConfigPath(".")
	v.AddConfigPath("./cmd/tracker-server")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	_ = v.BindEnv("http.port", "PORT", "HTTP_PORT")
	_ = v.BindEnv("broadcast.owner_key", "OWNER_KEY", "BROADCAST_OWNER_KEY")

	return v
}

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

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func InitConfig() {
	var err error

	_ = godotenv.Load()

	config, err = loadConfig(newViper())
	if err != nil {
		panic(err)
	}

	// Initialize logger with configured log level
	initLogger(config.Log.Level)

	// Pretty print config as JSON (only at DEBUG level)
	if strings.ToUpper(config.Log.Level) == LOG_LEVEL_DEBUG {
		configJSON, err := json.MarshalIndent(config, "", "  ")
		if err == nil {
			fmt.Println("Config loaded:")
			fmt.Println(string(configJSON))
		}
	}
}
