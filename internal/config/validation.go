package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	if err := c.Controller.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("controller: %w", err))
	}
	if err := c.Solver.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("solver: %w", err))
	}
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.Auth.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}
	if err := c.Persistence.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("persistence: %w", err))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if err := c.Sysload.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sysload: %w", err))
	}

	return errors.Join(errs...)
}

func (c *ControllerConfig) Validate() error {
	var errs []error
	if c.RecentAlpha <= 0 || c.RecentAlpha > 1 {
		errs = append(errs, fmt.Errorf("recent_alpha must be in (0, 1], got %v", c.RecentAlpha))
	}
	if c.AnomalyAlpha <= 0 || c.AnomalyAlpha > 1 {
		errs = append(errs, fmt.Errorf("anomaly_alpha must be in (0, 1], got %v", c.AnomalyAlpha))
	}
	if c.MeasureQuota < 1 {
		errs = append(errs, fmt.Errorf("measure_quota must be at least 1, got %d", c.MeasureQuota))
	}
	if c.ExploreValue < 0 {
		errs = append(errs, fmt.Errorf("explore_value must be non-negative, got %v", c.ExploreValue))
	}
	if c.PessimismSD < 0 {
		errs = append(errs, fmt.Errorf("pessimism_sd must be non-negative, got %v", c.PessimismSD))
	}
	return errors.Join(errs...)
}

func (s *SolverConfig) Validate() error {
	if s.Precision < 4 {
		return fmt.Errorf("precision must be at least 4, got %d", s.Precision)
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	return nil
}

func (a *AuthConfig) Validate() error {
	if a.Enabled {
		if a.User == "" {
			return fmt.Errorf("user cannot be empty when auth is enabled")
		}
		if a.Password == "" {
			return fmt.Errorf("password cannot be empty when auth is enabled")
		}
	}
	return nil
}

func (p *PersistenceConfig) Validate() error {
	if p.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if p.ProfileFile == "" {
		return fmt.Errorf("profile_file cannot be empty")
	}
	if p.FlushIntervalSec < 1 {
		return fmt.Errorf("flush_interval_sec must be at least 1")
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", l.Format)
	}
	return nil
}

func (s *SysloadConfig) Validate() error {
	if s.PollIntervalMS < 100 {
		return fmt.Errorf("poll_interval_ms must be at least 100, got %d", s.PollIntervalMS)
	}
	return nil
}
