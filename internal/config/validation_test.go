package config

import (
	"testing"
)

func TestValidateDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidateServerPort(t *testing.T) {
	tests := []struct {
		port    int
		wantErr bool
	}{
		{0, true},
		{-1, true},
		{65536, true},
		{1, false},
		{8090, false},
		{65535, false},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Server.Port = tt.port
		err := cfg.Server.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("port %d: wantErr=%v, got %v", tt.port, tt.wantErr, err)
		}
	}
}

func TestValidateController(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*ControllerConfig)
		wantErr bool
	}{
		{"valid defaults", func(c *ControllerConfig) {}, false},
		{"recent_alpha zero", func(c *ControllerConfig) { c.RecentAlpha = 0 }, true},
		{"recent_alpha over 1", func(c *ControllerConfig) { c.RecentAlpha = 1.5 }, true},
		{"anomaly_alpha negative", func(c *ControllerConfig) { c.AnomalyAlpha = -0.1 }, true},
		{"measure_quota zero", func(c *ControllerConfig) { c.MeasureQuota = 0 }, true},
		{"explore_value negative", func(c *ControllerConfig) { c.ExploreValue = -1 }, true},
		{"pessimism_sd negative", func(c *ControllerConfig) { c.PessimismSD = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg.Controller)
			err := cfg.Controller.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateSolver(t *testing.T) {
	tests := []struct {
		precision int
		wantErr   bool
	}{
		{4, false},
		{512, false},
		{3, true},
		{0, true},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Solver.Precision = tt.precision
		err := cfg.Solver.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("precision=%d: wantErr=%v, got %v", tt.precision, tt.wantErr, err)
		}
	}
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		level   string
		format  string
		wantErr bool
	}{
		{"debug", "json", false},
		{"info", "json", false},
		{"warn", "json", false},
		{"error", "json", false},
		{"info", "text", false},
		{"invalid", "json", true},
		{"info", "invalid", true},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Logging.Level = tt.level
		cfg.Logging.Format = tt.format
		err := cfg.Logging.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("level=%s format=%s: wantErr=%v, got %v", tt.level, tt.format, tt.wantErr, err)
		}
	}
}

func TestValidateAuth(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		user     string
		password string
		wantErr  bool
	}{
		{"disabled no creds", false, "", "", false},
		{"enabled with creds", true, "admin", "secret", false},
		{"enabled no user", true, "", "secret", true},
		{"enabled no password", true, "admin", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.Enabled = tt.enabled
			cfg.Auth.User = tt.user
			cfg.Auth.Password = tt.password
			err := cfg.Auth.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidatePersistence(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*PersistenceConfig)
		wantErr bool
	}{
		{"valid defaults", func(p *PersistenceConfig) {}, false},
		{"empty data_dir", func(p *PersistenceConfig) { p.DataDir = "" }, true},
		{"empty profile_file", func(p *PersistenceConfig) { p.ProfileFile = "" }, true},
		{"flush interval zero", func(p *PersistenceConfig) { p.FlushIntervalSec = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg.Persistence)
			err := cfg.Persistence.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateSysload(t *testing.T) {
	tests := []struct {
		interval int
		wantErr  bool
	}{
		{1000, false},
		{100, false},
		{99, true},
		{0, true},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Sysload.PollIntervalMS = tt.interval
		err := cfg.Sysload.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("interval=%d: wantErr=%v, got %v", tt.interval, tt.wantErr, err)
		}
	}
}
