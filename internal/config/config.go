package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode          string            `mapstructure:"mode"`
	Port          int               `mapstructure:"port"`
	StaticPath    string            `mapstructure:"static_path"`
	ReadLimit     int64             `mapstructure:"read_limit"`
	Secret        string            `mapstructure:"secret"`
	SweepPeriod   time.Duration     `mapstructure:"sweep_period"`
	HistoryLimit  int               `mapstructure:"history_limit"`
	MsgRateLimit  int               `mapstructure:"msg_rate_limit"`
	MsgRateWindow time.Duration     `mapstructure:"msg_rate_window"`
	Rooms         map[string]string `mapstructure:"rooms"`
}

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
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("sweep_period", "30s")
	v.SetDefault("history_limit", 100)
	v.SetDefault("msg_rate_limit", 10)
	v.SetDefault("msg_rate_window", "10s")
	v.SetDefault("rooms", map[string]string{
		"general": "General",
		"random":  "Random",
		"tech":    "Tech Talk",
	})

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Rooms: %d\n", cfg.Mode, cfg.Port, len(cfg.Rooms))
	return &cfg, nil
}
