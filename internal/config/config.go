package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Worker    WorkerConfig    `yaml:"worker"`
	Home      HomeConfig      `yaml:"home"`
	AWS       AWSConfig       `yaml:"aws"`
	Log       LogConfig       `yaml:"log"`
	Seed      SeedConfig      `yaml:"seed"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StoreConfig struct {
	// Driver is "postgres" or "memory".
	Driver   string         `yaml:"driver"`
	Postgres DatabaseConfig `yaml:"postgres"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

// RedisConfig covers both the feed cache and the preference store. With Enabled off the
// cache is a no-op and preferences live in memory.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Host     string        `yaml:"host"`
	Port     string        `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	Prefix   string        `yaml:"prefix"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

type WorkerConfig struct {
	PoolSize int `yaml:"pool_size"`
}

type HomeConfig struct {
	SearchDelay time.Duration `yaml:"search_delay"`
}

// AWSConfig enables photo uploads when S3Bucket is set.
type AWSConfig struct {
	Region        string `yaml:"region"`
	S3Bucket      string `yaml:"s3_bucket"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Endpoint      string `yaml:"endpoint"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type SeedConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", ShutdownTimeout: 10 * time.Second},
		Store: StoreConfig{
			Driver: "memory",
			Postgres: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "postgres",
				DBName:   "travelplaner",
				SSLMode:  "disable",
				MaxConns: 10,
			},
		},
		Redis: RedisConfig{
			Host:   "localhost",
			Port:   "6379",
			TTL:    5 * time.Minute,
			Prefix: "travelplaner:",
		},
		RateLimit: RateLimitConfig{RequestsPerSecond: 10, BurstSize: 20},
		Worker:    WorkerConfig{PoolSize: 4},
		Home:      HomeConfig{SearchDelay: 100 * time.Millisecond},
		AWS:       AWSConfig{Region: "us-east-1"},
		Log:       LogConfig{Level: "info"},
		Seed:      SeedConfig{Enabled: true},
	}
}

// Load starts from the defaults, applies the YAML file at path when it exists and then the
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.Postgres.Host = getEnv("DB_HOST", c.Store.Postgres.Host)
	c.Store.Postgres.Port = getEnvInt("DB_PORT", c.Store.Postgres.Port)
	c.Store.Postgres.User = getEnv("DB_USER", c.Store.Postgres.User)
	c.Store.Postgres.Password = getEnv("DB_PASSWORD", c.Store.Postgres.Password)
	c.Store.Postgres.DBName = getEnv("DB_NAME", c.Store.Postgres.DBName)
	c.Store.Postgres.SSLMode = getEnv("DB_SSLMODE", c.Store.Postgres.SSLMode)

	c.Redis.Enabled = getEnvBool("CACHE_ENABLED", c.Redis.Enabled)
	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnv("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.TTL = getEnvDuration("REDIS_TTL", c.Redis.TTL)

	c.RateLimit.RequestsPerSecond = getEnvFloat("RATE_LIMIT_RPS", c.RateLimit.RequestsPerSecond)
	c.RateLimit.BurstSize = getEnvInt("RATE_LIMIT_BURST", c.RateLimit.BurstSize)

	c.Worker.PoolSize = getEnvInt("WORKER_POOL_SIZE", c.Worker.PoolSize)
	c.Home.SearchDelay = getEnvDuration("SEARCH_DELAY", c.Home.SearchDelay)

	c.AWS.Region = getEnv("AWS_REGION", c.AWS.Region)
	c.AWS.S3Bucket = getEnv("S3_BUCKET", c.AWS.S3Bucket)
	c.AWS.Endpoint = getEnv("S3_ENDPOINT", c.AWS.Endpoint)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Pretty = getEnvBool("LOG_PRETTY", c.Log.Pretty)
	c.Seed.Enabled = getEnvBool("SEED_ENABLED", c.Seed.Enabled)
}

// DSN returns the PostgreSQL connection URL. Credentials are escaped, so passwords may
// contain spaces, quotes or '@'.
func (c *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.DBName,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else if c.User != "" {
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
