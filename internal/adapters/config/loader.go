// Package config provides the configuration and job file loader for sdnode.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values of sdnode.yaml.
const (
	EnvProtocol    = "STABLE_DIFFUSION_PROTOCOL"
	EnvHost        = "STABLE_DIFFUSION_HOST"
	EnvPort        = "STABLE_DIFFUSION_PORT"
	EnvStore       = "SDNODE_STORE"
	EnvRedisAddr   = "SDNODE_REDIS_ADDR"
	EnvMetricsAddr = "SDNODE_METRICS_ADDR"
)

// SupportedVersion is the only config and job file version understood by the loader.
const SupportedVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using YAML files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds sdnode.yaml in cwd or one of its parents and resolves it against the defaults
// and the environment. Without a config file the defaults are used with cwd as root.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	cfg.Root = filepath.Clean(cwd)

	configPath, found := findConfiguration(cwd)
	if found {
		var file Configfile
		if err := readAndUnmarshalYAML(configPath, &file, domain.ErrConfigReadFailed, domain.ErrConfigParseFailed); err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
		l.checkVersion(configPath, file.Version)

		cfg.Root = resolveRoot(configPath, file.Root)
		if err := applyFile(cfg, &file); err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(cfg.Root, cfg.Store.Path)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadJob reads a job file. Every invocation needs a node and a unique output path.
func (l *Loader) LoadJob(path string) (*domain.Job, error) {
	var file Jobfile
	if err := readAndUnmarshalYAML(path, &file, domain.ErrJobReadFailed, domain.ErrJobParseFailed); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	l.checkVersion(path, file.Version)

	if len(file.Invocations) == 0 {
		return nil, zerr.With(domain.ErrEmptyJob, "path", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrJobReadFailed.Error()), "path", path)
	}

	job := &domain.Job{
		Dir:         filepath.Dir(absPath),
		Invocations: make([]domain.Invocation, 0, len(file.Invocations)),
	}
	outputs := make(map[string]int, len(file.Invocations))

	for i, dto := range file.Invocations {
		if dto == nil {
			return nil, invocationError(path, i, "invocation is empty")
		}

		node := dto.Node
		if node == "" {
			node = file.Node
		}
		if node == "" {
			return nil, invocationError(path, i, "node is required")
		}
		if dto.Output == "" {
			return nil, invocationError(path, i, "output is required")
		}

		output := filepath.Clean(dto.Output)
		if prev, ok := outputs[output]; ok {
			err := invocationError(path, i, "output is already written by another invocation")
			return nil, zerr.With(err, "other_invocation", prev)
		}
		outputs[output] = i

		inputs := dto.Inputs
		if inputs == nil {
			inputs = map[string]any{}
		}

		job.Invocations = append(job.Invocations, domain.Invocation{
			Node:   node,
			Inputs: inputs,
			Output: output,
		})
	}

	return job, nil
}

func (l *Loader) checkVersion(path, version string) {
	if version != "" && version != SupportedVersion && l.Logger != nil {
		l.Logger.Warn("unsupported version " + strconv.Quote(version) + " in " + path + ", reading it as version " + SupportedVersion)
	}
}

func invocationError(path string, index int, reason string) error {
	err := zerr.With(domain.ErrJobParseFailed, "path", path)
	err = zerr.With(err, "invocation", index)
	return zerr.With(err, "reason", reason)
}

// findConfiguration walks up from cwd and returns the nearest sdnode.yaml.
func findConfiguration(cwd string) (string, bool) {
	currentDir := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func applyFile(cfg *domain.Config, file *Configfile) error {
	if file.Backend.Protocol != "" {
		cfg.Backend.Protocol = strings.ToLower(file.Backend.Protocol)
	}
	if file.Backend.Host != "" {
		cfg.Backend.Host = file.Backend.Host
	}
	if file.Backend.Port != 0 {
		cfg.Backend.Port = file.Backend.Port
	}
	if file.Backend.Timeout != "" {
		timeout, err := parseDuration("backend.timeout", file.Backend.Timeout)
		if err != nil {
			return err
		}
		cfg.Backend.Timeout = timeout
	}

	if file.Store.Kind != "" {
		cfg.Store.Kind = domain.StoreKind(strings.ToLower(file.Store.Kind))
	}
	if file.Store.Path != "" {
		cfg.Store.Path = file.Store.Path
	}
	redis := file.Store.Redis
	if redis.Addr != "" {
		cfg.Store.Redis.Addr = redis.Addr
	}
	cfg.Store.Redis.Password = redis.Password
	cfg.Store.Redis.DB = redis.DB
	if redis.Prefix != "" {
		cfg.Store.Redis.Prefix = redis.Prefix
	}
	if redis.TTL != "" {
		ttl, err := parseDuration("store.redis.ttl", redis.TTL)
		if err != nil {
			return err
		}
		cfg.Store.Redis.TTL = ttl
	}

	cfg.MetricsAddr = file.Metrics.Addr
	if file.Log.Format != "" {
		cfg.LogFormat = domain.LogFormat(strings.ToLower(file.Log.Format))
	}
	if file.Run.Parallel != 0 {
		cfg.Parallelism = file.Run.Parallel
	}

	return nil
}

func applyEnv(cfg *domain.Config) error {
	if v, ok := os.LookupEnv(EnvProtocol); ok && v != "" {
		cfg.Backend.Protocol = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv(EnvHost); ok && v != "" {
		cfg.Backend.Host = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			err = zerr.Wrap(err, domain.ErrConfigInvalid.Error())
			return zerr.With(err, "env", EnvPort)
		}
		cfg.Backend.Port = port
	}
	if v, ok := os.LookupEnv(EnvStore); ok && v != "" {
		cfg.Store.Kind = domain.StoreKind(strings.ToLower(v))
	}
	if v, ok := os.LookupEnv(EnvRedisAddr); ok && v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v, ok := os.LookupEnv(EnvMetricsAddr); ok && v != "" {
		cfg.MetricsAddr = v
	}
	return nil
}

func validate(cfg *domain.Config) error {
	switch cfg.Backend.Protocol {
	case "http", "https":
	default:
		return invalid("backend.protocol", cfg.Backend.Protocol)
	}
	if cfg.Backend.Host == "" {
		return invalid("backend.host", cfg.Backend.Host)
	}
	if cfg.Backend.Port < 1 || cfg.Backend.Port > 65535 {
		return invalid("backend.port", cfg.Backend.Port)
	}
	if cfg.Backend.Timeout <= 0 {
		return invalid("backend.timeout", cfg.Backend.Timeout)
	}

	switch cfg.Store.Kind {
	case domain.StoreNone, domain.StoreDisk:
	case domain.StoreRedis:
		if cfg.Store.Redis.Addr == "" {
			return invalid("store.redis.addr", cfg.Store.Redis.Addr)
		}
	default:
		return invalid("store.kind", cfg.Store.Kind)
	}

	switch cfg.LogFormat {
	case domain.LogPretty, domain.LogJSON:
	default:
		return invalid("log.format", cfg.LogFormat)
	}

	if cfg.Parallelism < 1 {
		return invalid("run.parallel", cfg.Parallelism)
	}

	return nil
}

func invalid(key string, value any) error {
	err := zerr.With(domain.ErrConfigInvalid, "key", key)
	return zerr.With(err, "value", value)
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "key", key)
	}
	return d, nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](path string, target *T, readErr, parseErr error) error {
	// #nosec G304 -- path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, readErr.Error())
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.Wrap(err, parseErr.Error())
	}

	return nil
}
