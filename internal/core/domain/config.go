package domain

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

// StoreKind selects the persistent result store.
type StoreKind string

// Store kinds.
const (
	StoreNone  StoreKind = "none"
	StoreDisk  StoreKind = "disk"
	StoreRedis StoreKind = "redis"
)

// LogFormat selects the log output format.
type LogFormat string

// Log formats.
const (
	LogPretty LogFormat = "pretty"
	LogJSON   LogFormat = "json"
)

// Defaults applied by the config loader.
const (
	DefaultProtocol    = "http"
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 7860
	DefaultTimeout     = 5 * time.Minute
	DefaultParallelism = 4
	DefaultRedisPrefix = "sdnode:"
)

// BackendConfig locates the Automatic1111 web UI API.
type BackendConfig struct {
	Protocol string
	Host     string
	Port     int
	Timeout  time.Duration
}

// BaseURL returns the root URL of the backend API.
func (b BackendConfig) BaseURL() string {
	u := url.URL{
		Scheme: b.Protocol,
		Host:   net.JoinHostPort(b.Host, strconv.Itoa(b.Port)),
	}
	return u.String()
}

// RedisConfig configures the Redis result store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// StoreConfig configures the persistent result store tier.
type StoreConfig struct {
	Kind  StoreKind
	Path  string
	Redis RedisConfig
}

// Config is the resolved sdnode configuration.
type Config struct {
	Backend     BackendConfig
	Store       StoreConfig
	MetricsAddr string
	LogFormat   LogFormat
	Parallelism int
	// Root is the directory relative paths are resolved against.
	Root string
}

// DefaultConfig returns the configuration used when no sdnode.yaml is found.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Protocol: DefaultProtocol,
			Host:     DefaultHost,
			Port:     DefaultPort,
			Timeout:  DefaultTimeout,
		},
		Store: StoreConfig{
			Kind: StoreNone,
			Path: DefaultStorePath(),
			Redis: RedisConfig{
				Prefix: DefaultRedisPrefix,
			},
		},
		LogFormat:   LogPretty,
		Parallelism: DefaultParallelism,
	}
}
