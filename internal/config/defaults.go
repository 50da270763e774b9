package config

import (
	"time"

	"github.com/rileyhilliard/nodehealth/internal/health"
	"github.com/rileyhilliard/nodehealth/internal/stats"
	"github.com/spf13/viper"
)

// Default values.
const (
	DefaultDiskCeiling  = 90.0
	DefaultCPUCeiling   = 60.0
	DefaultPollInterval = 20 * time.Second
	DefaultCPUInterval  = 7 * time.Second
	DefaultAccessLog    = "/var/log/ralf/access_current.txt"
	DefaultSNMPTarget   = "localhost"
	DefaultSNMPPort     = 161
	DefaultCommunity    = "clearwater"
	DefaultSNMPTimeout  = 2 * time.Second
	DefaultSNMPRetries  = 1
	DefaultLogFile      = "/var/log/nodehealth/nodehealth.log"
	DefaultLogLevel     = "info"
	DefaultDialTimeout  = 10 * time.Second
	DefaultEnvFile      = "/etc/clearwater/config"
)

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdsConfig{
			Disk: DefaultDiskCeiling,
			CPU:  DefaultCPUCeiling,
		},
		Checks: ChecksConfig{
			PollInterval: DefaultPollInterval,
			CPUInterval:  DefaultCPUInterval,
		},
		Stats: StatsConfig{
			Interval:  stats.DefaultInterval,
			AccessLog: DefaultAccessLog,
		},
		SNMP: SNMPConfig{
			Port:      DefaultSNMPPort,
			Community: DefaultCommunity,
			Timeout:   DefaultSNMPTimeout,
			Retries:   DefaultSNMPRetries,
		},
		Commands: health.DefaultCommands(),
		Log: LogConfig{
			File:  DefaultLogFile,
			Level: DefaultLogLevel,
		},
		Node: NodeConfig{
			DialTimeout: DefaultDialTimeout,
			EnvFile:     DefaultEnvFile,
		},
	}
}

// setDefaults registers every key with viper. Keys viper doesn't know about
// can't be overridden from the environment.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("thresholds.disk", d.Thresholds.Disk)
	v.SetDefault("thresholds.cpu", d.Thresholds.CPU)
	v.SetDefault("checks.poll_interval", d.Checks.PollInterval)
	v.SetDefault("checks.cpu_interval", d.Checks.CPUInterval)
	v.SetDefault("stats.interval", d.Stats.Interval)
	v.SetDefault("stats.catalog", d.Stats.Catalog)
	v.SetDefault("stats.access_log", d.Stats.AccessLog)
	v.SetDefault("snmp.target", d.SNMP.Target)
	v.SetDefault("snmp.port", d.SNMP.Port)
	v.SetDefault("snmp.community", d.SNMP.Community)
	v.SetDefault("snmp.timeout", d.SNMP.Timeout)
	v.SetDefault("snmp.retries", d.SNMP.Retries)
	v.SetDefault("commands.sysinfo", d.Commands.SysInfo)
	v.SetDefault("commands.monit_summary", d.Commands.MonitSummary)
	v.SetDefault("commands.etcd_health", d.Commands.EtcdHealth)
	v.SetDefault("commands.etcd_members", d.Commands.EtcdMembers)
	v.SetDefault("commands.cluster_state", d.Commands.ClusterState)
	v.SetDefault("commands.top", d.Commands.Top)
	v.SetDefault("commands.disk_free", d.Commands.DiskFree)
	v.SetDefault("commands.node_status", d.Commands.NodeStatus)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("node.ssh", d.Node.SSH)
	v.SetDefault("node.dial_timeout", d.Node.DialTimeout)
	v.SetDefault("node.env_file", d.Node.EnvFile)
}
