package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Backend struct {
		BaseURL        string        `yaml:"base_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		TradesLimit    int           `yaml:"trades_limit"`
	} `yaml:"backend"`
	Dashboard struct {
		DefaultModel string   `yaml:"default_model"`
		Models       []string `yaml:"models"`
		Poll         struct {
			LiveInterval     time.Duration `yaml:"live_interval"`
			FallbackInterval time.Duration `yaml:"fallback_interval"`
		} `yaml:"poll"`
	} `yaml:"dashboard"`
	History struct {
		Backend string `yaml:"backend"` // none, kafka, clickhouse
		Kafka   struct {
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic"`
			Compression  string        `yaml:"compression"`
			RequiredAcks int           `yaml:"required_acks"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"kafka"`
		ClickHouse struct {
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			Database     string        `yaml:"database"`
			User         string        `yaml:"user"`
			Password     string        `yaml:"password"`
			DialTimeout  time.Duration `yaml:"dial_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"clickhouse"`
	} `yaml:"history"`
	Cache struct {
		Redis struct {
			Enabled  bool          `yaml:"enabled"`
			Host     string        `yaml:"host"`
			Port     int           `yaml:"port"`
			Password string        `yaml:"password"`
			DB       int           `yaml:"db"`
			Prefix   string        `yaml:"prefix"`
			TTL      time.Duration `yaml:"ttl"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("DEFAULT_MODEL"); v != "" {
		c.Dashboard.DefaultModel = v
	}
	if v := os.Getenv("MODELS"); v != "" {
		c.Dashboard.Models = strings.Split(v, ",")
	}
	if v := os.Getenv("HISTORY_BACKEND"); v != "" {
		c.History.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.History.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = host
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Cache.Redis.Port = p
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Backend.RequestTimeout == 0 {
		c.Backend.RequestTimeout = 15 * time.Second
	}
	if c.Backend.TradesLimit == 0 {
		c.Backend.TradesLimit = 50
	}
	if len(c.Dashboard.Models) == 0 {
		c.Dashboard.Models = []string{"tech", "energy"}
	}
	if c.Dashboard.DefaultModel == "" {
		c.Dashboard.DefaultModel = c.Dashboard.Models[0]
	}
	// The degraded interval is deliberately the longer one: poll a possibly
	// struggling backend gently, but still confirm recovery periodically.
	if c.Dashboard.Poll.LiveInterval == 0 {
		c.Dashboard.Poll.LiveInterval = 5 * time.Minute
	}
	if c.Dashboard.Poll.FallbackInterval == 0 {
		c.Dashboard.Poll.FallbackInterval = 15 * time.Minute
	}
	if c.History.Backend == "" {
		c.History.Backend = "none"
	}
	if c.Cache.Redis.TTL == 0 {
		c.Cache.Redis.TTL = 24 * time.Hour
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "portfoliopulse"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	switch c.History.Backend {
	case "none", "kafka", "clickhouse":
	default:
		return fmt.Errorf("history.backend must be 'none', 'kafka' or 'clickhouse', got '%s'", c.History.Backend)
	}
	if len(c.Dashboard.Models) == 0 {
		return fmt.Errorf("dashboard.models cannot be empty")
	}
	found := false
	for _, m := range c.Dashboard.Models {
		if m == c.Dashboard.DefaultModel {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("dashboard.default_model '%s' is not in dashboard.models", c.Dashboard.DefaultModel)
	}
	if c.Dashboard.Poll.LiveInterval <= 0 || c.Dashboard.Poll.FallbackInterval <= 0 {
		return fmt.Errorf("dashboard.poll intervals must be positive")
	}
	return nil
}
