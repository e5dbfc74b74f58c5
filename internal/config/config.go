package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of the portal
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Remote training-platform API
	APIBaseURL string
	APITimeout time.Duration

	// Login gate and notebook environment
	DemoPassword string
	NotebookURL  string

	// Sessions
	SessionCookie string
	SessionTTL    time.Duration
	RedisURL      string

	// Activity events
	KafkaBrokers  []string
	ActivityTopic string
}

const (
	DefaultAPIBaseURL  = "http://localhost:8001"
	DefaultNotebookURL = "http://localhost:8888/lab?token=training2024"
)

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromViper(NewViper())
}

// NewViper returns a viper instance bound to the environment with the portal defaults.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("port", "3000")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_url", DefaultAPIBaseURL)
	v.SetDefault("api_timeout", 30*time.Second)
	v.SetDefault("demo_password", "123456")
	v.SetDefault("notebook_url", DefaultNotebookURL)
	v.SetDefault("session_cookie", "portal_session")
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("redis_url", "")
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("activity_topic", "portal.activity")

	v.AutomaticEnv()
	// Older deployments set REACT_APP_API_URL.
	_ = v.BindEnv("api_url", "API_URL", "REACT_APP_API_URL")

	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	level, err := parseLogLevel(v.GetString("log_level"))
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(v.GetString("api_url"), "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid API_URL %q: %w", baseURL, err)
	}

	cfg := &Config{
		Port:          v.GetString("port"),
		Environment:   v.GetString("environment"),
		LogLevel:      level,
		APIBaseURL:    baseURL,
		APITimeout:    v.GetDuration("api_timeout"),
		DemoPassword:  v.GetString("demo_password"),
		NotebookURL:   v.GetString("notebook_url"),
		SessionCookie: v.GetString("session_cookie"),
		SessionTTL:    v.GetDuration("session_ttl"),
		RedisURL:      v.GetString("redis_url"),
		KafkaBrokers:  splitList(v.GetString("kafka_brokers")),
		ActivityTopic: v.GetString("activity_topic"),
	}

	if cfg.SessionCookie == "" {
		return nil, errors.New("SESSION_COOKIE must not be empty")
	}
	return cfg, nil
}

// IsProduction reports whether gin should run in release mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
