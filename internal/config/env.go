package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rileyhilliard/nodehealth/internal/errors"
)

// ReadNodeEnv reads the node's shell-style settings file. Lines that aren't
// assignments, such as sourcing another file, are skipped.
func ReadNodeEnv(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var assignments []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || !strings.Contains(trimmed, "=") {
			continue
		}
		assignments = append(assignments, trimmed)
	}

	env, err := godotenv.Unmarshal(strings.Join(assignments, "\n"))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't parse "+path,
			"Check the file holds name=value lines")
	}
	return env, nil
}

// resolveSNMPTarget fills in the SNMP target when it isn't configured. A
// local node is reached on its local_ip, or localhost when the env file
// doesn't say. A remote node has no such fallback.
func resolveSNMPTarget(cfg *Config) error {
	if cfg.SNMP.Target != "" {
		return nil
	}
	if cfg.Remote() {
		return errors.New(errors.ErrConfig,
			"snmp.target must be set when node.ssh is",
			"Set snmp.target to the address of "+cfg.Node.SSH+"'s SNMP agent")
	}

	cfg.SNMP.Target = DefaultSNMPTarget
	if cfg.Node.EnvFile == "" {
		return nil
	}
	env, err := ReadNodeEnv(cfg.Node.EnvFile)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if ip := env["local_ip"]; ip != "" {
		cfg.SNMP.Target = ip
	}
	return nil
}
