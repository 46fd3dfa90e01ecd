package config

// Configfile represents the structure of the sdnode.yaml configuration file.
type Configfile struct {
	Version string     `yaml:"version"`
	Root    string     `yaml:"root"`
	Backend BackendDTO `yaml:"backend"`
	Store   StoreDTO   `yaml:"store"`
	Metrics MetricsDTO `yaml:"metrics"`
	Log     LogDTO     `yaml:"log"`
	Run     RunDTO     `yaml:"run"`
}

// BackendDTO locates the Automatic1111 web UI API.
type BackendDTO struct {
	Protocol string `yaml:"protocol"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Timeout  string `yaml:"timeout"`
}

// StoreDTO configures the persistent result store.
type StoreDTO struct {
	Kind  string   `yaml:"kind"`
	Path  string   `yaml:"path"`
	Redis RedisDTO `yaml:"redis"`
}

// RedisDTO configures the Redis result store.
type RedisDTO struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
	TTL      string `yaml:"ttl"`
}

// MetricsDTO configures the metrics endpoint.
type MetricsDTO struct {
	Addr string `yaml:"addr"`
}

// LogDTO configures log output.
type LogDTO struct {
	Format string `yaml:"format"`
}

// RunDTO configures the job runner.
type RunDTO struct {
	Parallel int `yaml:"parallel"`
}

// Jobfile represents the structure of a job file.
type Jobfile struct {
	Version string `yaml:"version"`
	// Node is the default node ID for invocations that do not name one.
	Node        string           `yaml:"node"`
	Invocations []*InvocationDTO `yaml:"invocations"`
}

// InvocationDTO represents a single invocation in a job file.
type InvocationDTO struct {
	Node   string         `yaml:"node"`
	Inputs map[string]any `yaml:"inputs"`
	Output string         `yaml:"output"`
}
