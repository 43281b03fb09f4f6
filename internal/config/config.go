package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
	BaseURL    string `mapstructure:"base_url"`
	Secret     string `mapstructure:"secret"`

	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	TranscribeModel string        `mapstructure:"transcribe_model"`
	UpstreamURL     string        `mapstructure:"upstream_url"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	SSEKeepAlive    time.Duration `mapstructure:"sse_keepalive"`
}

var ErrMissingAPIKey = errors.New("upstream API key is required (set OPENAI_API_KEY)")

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./static")
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("model", "gpt-4o-realtime-preview")
	v.SetDefault("transcribe_model", "gpt-4o-mini-transcribe")
	v.SetDefault("upstream_url", "wss://api.openai.com/v1/realtime")
	v.SetDefault("connect_timeout", "10s")
	v.SetDefault("sse_keepalive", "15s")

	// Secrets and deploy-specific values come from the environment, never
	// from a checked-in yaml file.
	_ = v.BindEnv("api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("model", "REALTIME_MODEL")
	_ = v.BindEnv("base_url", "BASE_URL")
	_ = v.BindEnv("port", "PORT")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Model: %s\n", cfg.Mode, cfg.Port, cfg.Model)
	return &cfg, nil
}
