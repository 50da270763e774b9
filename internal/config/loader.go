package config

import (
	stderrors "errors"
	"strings"

	"github.com/rileyhilliard/nodehealth/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigName is the config file name, without extension.
	ConfigName = "nodehealth"
	// SystemConfigDir is searched when no explicit path is given.
	SystemConfigDir = "/etc/nodehealth"
	// EnvPrefix prefixes environment overrides: NODEHEALTH_SNMP_COMMUNITY
	// overrides snmp.community.
	EnvPrefix = "NODEHEALTH"
	// PathEnv names an explicit config file.
	PathEnv = "NODEHEALTH_CONFIG"
)

// Load reads config from path, or from SystemConfigDir when path is empty.
// A missing file in SystemConfigDir is fine: every key has a default.
// Environment overrides apply either way.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file "+path,
				"Check the file exists and is valid YAML, or unset "+PathEnv)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(SystemConfigDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Failed to read config file in "+SystemConfigDir,
					"Check the file is valid YAML")
			}
		}
	}

	return parseConfig(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// parseConfig converts viper config to our Config struct, fills in the SNMP
// target and validates the result.
func parseConfig(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the value types, e.g. durations like 20s and ports like 161")
	}

	if err := resolveSNMPTarget(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
