package config

import (
	"time"

	"github.com/rileyhilliard/nodehealth/internal/health"
)

// Config represents the complete nodehealth configuration.
type Config struct {
	Thresholds ThresholdsConfig `yaml:"thresholds" mapstructure:"thresholds"`
	Checks     ChecksConfig     `yaml:"checks" mapstructure:"checks"`
	Stats      StatsConfig      `yaml:"stats" mapstructure:"stats"`
	SNMP       SNMPConfig       `yaml:"snmp" mapstructure:"snmp"`
	Commands   health.Commands  `yaml:"commands" mapstructure:"commands"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
	Node       NodeConfig       `yaml:"node" mapstructure:"node"`
}

// ThresholdsConfig holds the resource ceilings, in percent. Use above a
// ceiling raises a warning.
type ThresholdsConfig struct {
	Disk float64 `yaml:"disk" mapstructure:"disk"`
	CPU  float64 `yaml:"cpu" mapstructure:"cpu"`
}

// ChecksConfig controls the health check scheduler.
type ChecksConfig struct {
	// PollInterval is the pause between check cycles.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// CPUInterval is the gap between the two CPU tick readings.
	CPUInterval time.Duration `yaml:"cpu_interval" mapstructure:"cpu_interval"`
}

// StatsConfig controls the statistics table.
type StatsConfig struct {
	// Interval is the starting sampling window. The operator can change it
	// with + and -.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Catalog overrides the built-in statistics catalog.
	Catalog string `yaml:"catalog" mapstructure:"catalog"`

	// AccessLog is the ralf access log symlink the billing rates come from.
	AccessLog string `yaml:"access_log" mapstructure:"access_log"`
}

// SNMPConfig is the agent serving the node's counters.
type SNMPConfig struct {
	// Target defaults to local_ip from the node env file, then localhost.
	Target    string        `yaml:"target" mapstructure:"target"`
	Port      uint16        `yaml:"port" mapstructure:"port"`
	Community string        `yaml:"community" mapstructure:"community"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Retries   int           `yaml:"retries" mapstructure:"retries"`
}

// LogConfig controls the log file. The dashboard owns the terminal, so
// nothing is logged to stdout or stderr.
type LogConfig struct {
	File  string `yaml:"file" mapstructure:"file"`
	Level string `yaml:"level" mapstructure:"level"`
}

// MetricsConfig controls the Prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// NodeConfig says where the node is.
type NodeConfig struct {
	// SSH, when set, runs diagnostics on that host (user@host[:port] or an
	// SSH config alias) instead of locally.
	SSH string `yaml:"ssh" mapstructure:"ssh"`

	// DialTimeout bounds the SSH connection attempt.
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`

	// EnvFile is the node's shell-style settings file.
	EnvFile string `yaml:"env_file" mapstructure:"env_file"`
}

// Remote reports whether diagnostics run over SSH.
func (c *Config) Remote() bool {
	return c.Node.SSH != ""
}
