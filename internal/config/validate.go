package config

import (
	"fmt"

	"github.com/rileyhilliard/nodehealth/internal/errors"
	"github.com/rileyhilliard/nodehealth/internal/stats"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if err := validateCeiling("thresholds.disk", cfg.Thresholds.Disk); err != nil {
		return err
	}
	if err := validateCeiling("thresholds.cpu", cfg.Thresholds.CPU); err != nil {
		return err
	}

	if cfg.Checks.PollInterval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("checks.poll_interval must be positive, got %s", cfg.Checks.PollInterval),
			"Try the default, 20s")
	}
	if cfg.Checks.CPUInterval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("checks.cpu_interval must be positive, got %s", cfg.Checks.CPUInterval),
			"Try the default, 7s")
	}

	if cfg.Stats.Interval < stats.MinInterval || cfg.Stats.Interval > stats.MaxInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("stats.interval must be between %s and %s, got %s", stats.MinInterval, stats.MaxInterval, cfg.Stats.Interval),
			"Try the default, 5s")
	}
	if cfg.Stats.Interval%stats.IntervalStep != 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("stats.interval must be a multiple of %s, got %s", stats.IntervalStep, cfg.Stats.Interval),
			"The + and - keys move the interval in 5s steps")
	}

	if cfg.SNMP.Port == 0 {
		return errors.New(errors.ErrConfig, "snmp.port can't be 0", "The standard SNMP port is 161")
	}
	if cfg.SNMP.Community == "" {
		return errors.New(errors.ErrConfig, "snmp.community is empty", "Clearwater nodes use the community clearwater")
	}

	commands := map[string]string{
		"commands.sysinfo":       cfg.Commands.SysInfo,
		"commands.monit_summary": cfg.Commands.MonitSummary,
		"commands.etcd_health":   cfg.Commands.EtcdHealth,
		"commands.etcd_members":  cfg.Commands.EtcdMembers,
		"commands.cluster_state": cfg.Commands.ClusterState,
		"commands.top":           cfg.Commands.Top,
		"commands.disk_free":     cfg.Commands.DiskFree,
		"commands.node_status":   cfg.Commands.NodeStatus,
	}
	for key, cmd := range commands {
		if cmd == "" {
			return errors.New(errors.ErrConfig,
				key+" is empty",
				"Remove the key to use the stock command")
		}
	}

	if cfg.Log.File == "" {
		return errors.New(errors.ErrConfig, "log.file is empty",
			"The dashboard owns the terminal, so logs need a file")
	}

	return nil
}

func validateCeiling(key string, v float64) error {
	if v <= 0 || v > 100 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s must be a percentage between 0 and 100, got %g", key, v),
			"")
	}
	return nil
}
