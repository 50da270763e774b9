package exec

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/nodehealth/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget(t *testing.T) {
	t.Setenv("USER", "operator")
	t.Setenv("HOME", "/home/operator")

	sshConfig := `
Host sprout-1
  HostName 10.0.0.11
  Port 2222
  User clearwater
  IdentityFile ~/.ssh/sprout_key

Host homestead-*
  User ubuntu
`

	tests := []struct {
		name         string
		host         string
		config       string
		wantHostname string
		wantPort     string
		wantUser     string
		wantIdentity string
	}{
		{
			name:         "plain hostname without config",
			host:         "ralf.example.com",
			wantHostname: "ralf.example.com",
			wantPort:     "22",
			wantUser:     "operator",
		},
		{
			name:         "user and port in host string",
			host:         "admin@10.1.1.1:2200",
			wantHostname: "10.1.1.1",
			wantPort:     "2200",
			wantUser:     "admin",
		},
		{
			name:         "alias resolved from config",
			host:         "sprout-1",
			config:       sshConfig,
			wantHostname: "10.0.0.11",
			wantPort:     "2222",
			wantUser:     "clearwater",
			wantIdentity: filepath.Join("/home/operator", ".ssh/sprout_key"),
		},
		{
			name:         "wildcard host pattern",
			host:         "homestead-2",
			config:       sshConfig,
			wantHostname: "homestead-2",
			wantPort:     "22",
			wantUser:     "ubuntu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target *sshTarget
			if tt.config == "" {
				target = resolveTarget(tt.host, nil)
			} else {
				target = resolveTarget(tt.host, strings.NewReader(tt.config))
			}

			assert.Equal(t, tt.wantHostname, target.hostname)
			assert.Equal(t, tt.wantPort, target.port)
			assert.Equal(t, tt.wantUser, target.user)
			assert.Equal(t, tt.wantIdentity, target.identityFile)
		})
	}
}

func TestRemoteRunner_NoAuthMethods(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SSH_AUTH_SOCK", "")

	r := NewRemoteRunner("sprout-1", time.Second)
	_, err := r.Run(context.Background(), "monit summary")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSSH))
	assert.Contains(t, err.Error(), "No SSH auth methods available")
}

func TestRemoteRunner_CloseWithoutConnection(t *testing.T) {
	r := NewRemoteRunner("sprout-1", time.Second)
	assert.NoError(t, r.Close())
}
