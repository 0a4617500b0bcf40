// Package config loads the client and gateway settings from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

var ValidStores = []string{StoreSQLite, StoreRedis, StoreMemory}

type Config struct {
	API     APIConfig     `yaml:"api"`
	Store   StoreConfig   `yaml:"store"`
	Redis   RedisConfig   `yaml:"redis"`
	HTTP    HTTPConfig    `yaml:"http"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Logging LoggingConfig `yaml:"logging"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type StoreConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
	// Namespace separates local state of several profiles in one store.
	Namespace string `yaml:"namespace"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"`
}

type HTTPConfig struct {
	Port            string `yaml:"port"`
	RequestTimeout  string `yaml:"request_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	SessionIdleTTL  string `yaml:"session_idle_ttl"`
	SecureCookies   bool   `yaml:"secure_cookies"`
}

// KafkaConfig enables the checkout events poller when brokers are set.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers,omitempty"`
	Topic   string   `yaml:"topic"`
	// GroupID must differ between gateway replicas; empty generates one per process.
	GroupID string `yaml:"group_id,omitempty"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:4000/api",
			Timeout: "15s",
		},
		Store: StoreConfig{
			Driver:     StoreSQLite,
			SQLitePath: DefaultSQLitePath(),
			Namespace:  "default",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  "168h",
		},
		HTTP: HTTPConfig{
			Port:            "8080",
			RequestTimeout:  "30s",
			ShutdownTimeout: "10s",
			SessionIdleTTL:  "30m",
		},
		Kafka: KafkaConfig{
			Topic: "checkout-completed",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultSQLitePath is the CLI's state file under the user config directory.
func DefaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "bagshop.db"
	}
	return filepath.Join(dir, "bagshop", "state.db")
}

// Load reads path over the defaults and applies environment overrides. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) applyEnvOverrides() {
	c.API.BaseURL = getEnv("BAGSHOP_API_URL", c.API.BaseURL)
	c.API.Timeout = getEnv("BAGSHOP_API_TIMEOUT", c.API.Timeout)
	c.Store.Driver = getEnv("BAGSHOP_STORE", c.Store.Driver)
	c.Store.SQLitePath = getEnv("BAGSHOP_SQLITE_PATH", c.Store.SQLitePath)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.HTTP.Port = getEnv("HTTP_PORT", c.HTTP.Port)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
	c.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", c.Kafka.GroupID)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = nil
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.Kafka.Brokers = append(c.Kafka.Brokers, b)
			}
		}
	}
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api base url not configured (set BAGSHOP_API_URL)")
	}

	validStore := false
	for _, s := range ValidStores {
		if c.Store.Driver == s {
			validStore = true
			break
		}
	}
	if !validStore {
		return fmt.Errorf("invalid store driver: %s (valid: %v)", c.Store.Driver, ValidStores)
	}
	if c.Store.Driver == StoreSQLite && c.Store.SQLitePath == "" {
		return fmt.Errorf("sqlite store needs a path (set BAGSHOP_SQLITE_PATH)")
	}
	if c.Store.Driver == StoreRedis && c.Redis.Addr == "" {
		return fmt.Errorf("redis store needs an address (set REDIS_ADDR)")
	}

	for name, v := range map[string]string{
		"api.timeout":           c.API.Timeout,
		"redis.ttl":             c.Redis.TTL,
		"http.request_timeout":  c.HTTP.RequestTimeout,
		"http.shutdown_timeout": c.HTTP.ShutdownTimeout,
		"http.session_idle_ttl": c.HTTP.SessionIdleTTL,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
	}
	return nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c APIConfig) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout, 15*time.Second)
}

func (c RedisConfig) TTLDuration() time.Duration {
	return parseDuration(c.TTL, 7*24*time.Hour)
}

func (c HTTPConfig) RequestTimeoutDuration() time.Duration {
	return parseDuration(c.RequestTimeout, 30*time.Second)
}

func (c HTTPConfig) ShutdownTimeoutDuration() time.Duration {
	return parseDuration(c.ShutdownTimeout, 10*time.Second)
}

func (c HTTPConfig) SessionIdleTTLDuration() time.Duration {
	return parseDuration(c.SessionIdleTTL, 30*time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
