package config

func Default() *Config {
	return &Config{
		Controller: ControllerConfig{
			RecentAlpha:  1 - 1.0/30,
			AnomalyAlpha: 1 - 1.0/30,
			MeasureQuota: 30,
			ExploreValue: 0,
			PessimismSD:  3.0,
		},
		Solver: SolverConfig{
			Precision: 512,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Auth: AuthConfig{
			Enabled:  false,
			User:     "",
			Password: "",
		},
		Persistence: PersistenceConfig{
			DataDir:          "/var/lib/goblin",
			ProfileFile:      "profile.json",
			FlushIntervalSec: 600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Sysload: SysloadConfig{
			PollIntervalMS: 1000,
		},
	}
}
