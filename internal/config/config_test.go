package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/nodehealth/internal/errors"
	"github.com/rileyhilliard/nodehealth/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile writes content under a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// noEnvFile points the node env file somewhere empty so tests don't read
// the real one.
func noEnvFile(t *testing.T) {
	t.Helper()
	t.Setenv("NODEHEALTH_NODE_ENV_FILE", filepath.Join(t.TempDir(), "missing"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 90.0, cfg.Thresholds.Disk)
	assert.Equal(t, 60.0, cfg.Thresholds.CPU)
	assert.Equal(t, 20*time.Second, cfg.Checks.PollInterval)
	assert.Equal(t, 7*time.Second, cfg.Checks.CPUInterval)
	assert.Equal(t, 5*time.Second, cfg.Stats.Interval)
	assert.Equal(t, "/var/log/ralf/access_current.txt", cfg.Stats.AccessLog)
	assert.Empty(t, cfg.Stats.Catalog)
	assert.Equal(t, uint16(161), cfg.SNMP.Port)
	assert.Equal(t, "clearwater", cfg.SNMP.Community)
	assert.Equal(t, health.DefaultCommands(), cfg.Commands)
	assert.Equal(t, "/var/log/nodehealth/nodehealth.log", cfg.Log.File)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.False(t, cfg.Remote())
	assert.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	noEnvFile(t)
	path := writeFile(t, "nodehealth.yaml", `
thresholds:
  disk: 80
checks:
  poll_interval: 30s
stats:
  interval: 10s
  catalog: /etc/nodehealth/catalog.yaml
snmp:
  target: 10.0.0.7
  community: private
commands:
  top: top -b -n 1
log:
  level: debug
metrics:
  addr: ":9100"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 80.0, cfg.Thresholds.Disk)
	assert.Equal(t, 60.0, cfg.Thresholds.CPU, "unset keys keep their defaults")
	assert.Equal(t, 30*time.Second, cfg.Checks.PollInterval)
	assert.Equal(t, 7*time.Second, cfg.Checks.CPUInterval)
	assert.Equal(t, 10*time.Second, cfg.Stats.Interval)
	assert.Equal(t, "/etc/nodehealth/catalog.yaml", cfg.Stats.Catalog)
	assert.Equal(t, "10.0.0.7", cfg.SNMP.Target)
	assert.Equal(t, "private", cfg.SNMP.Community)
	assert.Equal(t, "top -b -n 1", cfg.Commands.Top)
	assert.Equal(t, "monit summary", cfg.Commands.MonitSummary)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	noEnvFile(t)
	t.Setenv("NODEHEALTH_SNMP_COMMUNITY", "fromenv")
	t.Setenv("NODEHEALTH_CHECKS_POLL_INTERVAL", "45s")
	t.Setenv("NODEHEALTH_SNMP_PORT", "1161")

	path := writeFile(t, "nodehealth.yaml", "snmp:\n  community: fromfile\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fromenv", cfg.SNMP.Community)
	assert.Equal(t, 45*time.Second, cfg.Checks.PollInterval)
	assert.Equal(t, uint16(1161), cfg.SNMP.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "nodehealth.yaml", "thresholds: [\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_SNMPTargetFromNodeEnv(t *testing.T) {
	envFile := writeFile(t, "config", `# Deployment definitions
. /etc/clearwater/shared_config
local_ip=10.1.2.3
public_ip=203.0.113.9
public_hostname=sprout-1.example.com
`)
	t.Setenv("NODEHEALTH_NODE_ENV_FILE", envFile)

	path := writeFile(t, "nodehealth.yaml", "log:\n  level: info\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.3", cfg.SNMP.Target)
}

func TestLoad_SNMPTargetDefaultsToLocalhost(t *testing.T) {
	noEnvFile(t)
	path := writeFile(t, "nodehealth.yaml", "log:\n  level: info\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.SNMP.Target)
}

func TestLoad_RemoteNeedsSNMPTarget(t *testing.T) {
	noEnvFile(t)
	path := writeFile(t, "nodehealth.yaml", "node:\n  ssh: admin@sprout-1\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "snmp.target")

	path = writeFile(t, "nodehealth.yaml", "node:\n  ssh: admin@sprout-1\nsnmp:\n  target: 10.0.0.9\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Remote())
	assert.Equal(t, "10.0.0.9", cfg.SNMP.Target)
}

func TestReadNodeEnv(t *testing.T) {
	path := writeFile(t, "config", `local_ip=10.0.0.1
# comment=ignored
etcd_cluster="10.0.0.1,10.0.0.2"

. /etc/clearwater/user_settings
`)

	env, err := ReadNodeEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", env["local_ip"])
	assert.Equal(t, "10.0.0.1,10.0.0.2", env["etcd_cluster"])
	assert.NotContains(t, env, "comment")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "disk ceiling zero", mutate: func(c *Config) { c.Thresholds.Disk = 0 }, wantErr: "thresholds.disk"},
		{name: "cpu ceiling over 100", mutate: func(c *Config) { c.Thresholds.CPU = 120 }, wantErr: "thresholds.cpu"},
		{name: "poll interval", mutate: func(c *Config) { c.Checks.PollInterval = 0 }, wantErr: "checks.poll_interval"},
		{name: "cpu interval", mutate: func(c *Config) { c.Checks.CPUInterval = -time.Second }, wantErr: "checks.cpu_interval"},
		{name: "stats interval too short", mutate: func(c *Config) { c.Stats.Interval = time.Second }, wantErr: "stats.interval"},
		{name: "stats interval too long", mutate: func(c *Config) { c.Stats.Interval = 2000 * time.Second }, wantErr: "stats.interval"},
		{name: "stats interval off step", mutate: func(c *Config) { c.Stats.Interval = 12 * time.Second }, wantErr: "multiple"},
		{name: "snmp port", mutate: func(c *Config) { c.SNMP.Port = 0 }, wantErr: "snmp.port"},
		{name: "community", mutate: func(c *Config) { c.SNMP.Community = "" }, wantErr: "snmp.community"},
		{name: "empty command", mutate: func(c *Config) { c.Commands.DiskFree = "" }, wantErr: "commands.disk_free"},
		{name: "log file", mutate: func(c *Config) { c.Log.File = "" }, wantErr: "log.file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
