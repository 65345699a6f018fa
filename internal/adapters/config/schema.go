package config

// Configfile represents the structure of the strata.yaml configuration file.
type Configfile struct {
	LoadTimeout     string      `yaml:"load_timeout"`
	IdleTimeout     string      `yaml:"idle_timeout"`
	Socket          string      `yaml:"socket"`
	PIDFile         string      `yaml:"pid_file"`
	LogFile         string      `yaml:"log_file"`
	HTTP            HTTPDTO     `yaml:"http"`
	Log             LogDTO      `yaml:"log"`
	Overview        OverviewDTO `yaml:"overview"`
	ExternalSegment string      `yaml:"external_segment"`
	Watch           *bool       `yaml:"watch"`
}

// HTTPDTO configures the optional HTTP transport of the daemon.
type HTTPDTO struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LogDTO configures log output.
type LogDTO struct {
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level"`
}

// OverviewDTO configures overview defaults.
type OverviewDTO struct {
	MaxDepth *int `yaml:"max_depth"`
}
