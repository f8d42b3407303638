// Package config loads and validates the goblin service's YAML
// configuration, mirroring the nested-struct, Default()/Validate() split
// used throughout the rest of this codebase.
package config

import "time"

type Config struct {
	Controller  ControllerConfig  `yaml:"controller"`
	Solver      SolverConfig      `yaml:"solver"`
	Server      ServerConfig      `yaml:"server"`
	Auth        AuthConfig        `yaml:"auth"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Logging     LoggingConfig     `yaml:"logging"`
	Sysload     SysloadConfig     `yaml:"sysload"`
}

// ControllerConfig mirrors controller.Config for YAML loading.
type ControllerConfig struct {
	RecentAlpha  float64 `yaml:"recent_alpha"`
	AnomalyAlpha float64 `yaml:"anomaly_alpha"`
	MeasureQuota int     `yaml:"measure_quota"`
	ExploreValue float64 `yaml:"explore_value"`
	PessimismSD  float64 `yaml:"pessimism_sd"`
}

// SolverConfig holds the knapsack solver's approximation knob.
type SolverConfig struct {
	Precision int `yaml:"precision"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type AuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type PersistenceConfig struct {
	DataDir          string `yaml:"data_dir"`
	ProfileFile      string `yaml:"profile_file"`
	FlushIntervalSec int    `yaml:"flush_interval_sec"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SysloadConfig configures the real host CPU/memory sampler that feeds
// the demo background-work setting and the anomaly signal.
type SysloadConfig struct {
	PollIntervalMS int `yaml:"poll_interval_ms"`
}

func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.Persistence.FlushIntervalSec) * time.Second
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Sysload.PollIntervalMS) * time.Millisecond
}
