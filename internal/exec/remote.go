package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kevinburke/ssh_config"
	"github.com/rileyhilliard/nodehealth/internal/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// RemoteRunner runs diagnostics on another node over SSH. It is used when
// the dashboard watches a node it is not installed on (config node.ssh).
// The connection is dialed on first use and redialed after a failure.
type RemoteRunner struct {
	Host        string
	DialTimeout time.Duration

	mu     sync.Mutex
	client *ssh.Client
	target *sshTarget
}

// sshTarget holds resolved SSH connection parameters.
type sshTarget struct {
	hostname     string
	port         string
	user         string
	identityFile string
}

func (t *sshTarget) address() string {
	return net.JoinHostPort(t.hostname, t.port)
}

// NewRemoteRunner resolves host against ~/.ssh/config. The host may be an
// alias, a hostname, or user@hostname:port.
func NewRemoteRunner(host string, dialTimeout time.Duration) *RemoteRunner {
	var cfg io.Reader
	if data, err := os.ReadFile(filepath.Join(homeDir(), ".ssh", "config")); err == nil {
		cfg = bytes.NewReader(data)
	}
	return &RemoteRunner{
		Host:        host,
		DialTimeout: dialTimeout,
		target:      resolveTarget(host, cfg),
	}
}

// resolveTarget parses user@host:port and fills the gaps from an ssh_config
// document. A nil or undecodable config leaves the parsed values alone.
func resolveTarget(host string, cfg io.Reader) *sshTarget {
	t := &sshTarget{port: "22", user: currentUser()}

	if at := strings.Index(host, "@"); at != -1 {
		t.user = host[:at]
		host = host[at+1:]
	}
	if h, p, err := net.SplitHostPort(host); err == nil {
		host, t.port = h, p
	}
	t.hostname = host

	if cfg == nil {
		return t
	}
	decoded, err := ssh_config.Decode(cfg)
	if err != nil {
		return t
	}
	if v, _ := decoded.Get(host, "HostName"); v != "" {
		t.hostname = v
	}
	if v, _ := decoded.Get(host, "Port"); v != "" {
		t.port = v
	}
	if v, _ := decoded.Get(host, "User"); v != "" {
		t.user = v
	}
	if v, _ := decoded.Get(host, "IdentityFile"); v != "" {
		t.identityFile = expandPath(v)
	}
	return t
}

// Run executes command in a fresh session. Sessions are cheap compared to
// the diagnostics themselves, so nothing is pooled beyond the connection.
func (r *RemoteRunner) Run(ctx context.Context, command string) (string, error) {
	client, err := r.connect(ctx)
	if err != nil {
		return "", err
	}

	session, err := client.NewSession()
	if err != nil {
		r.reset()
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to create SSH session",
			"Connection may have been closed. It will be redialed next cycle.")
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return "", ctx.Err()
	case err = <-done:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			return stdout.String(), &ExitError{
				Command: command,
				Code:    exitErr.ExitStatus(),
				Stderr:  stderr.String(),
			}
		}
		r.reset()
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Failed to execute command on %s: %s", r.Host, command),
			"Check if the command exists on the remote host.")
	}

	return stdout.String(), nil
}

// Close drops the SSH connection if one is open.
func (r *RemoteRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

func (r *RemoteRunner) reset() {
	_ = r.Close()
}

func (r *RemoteRunner) connect(ctx context.Context) (*ssh.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}

	config, err := clientConfig(r.target)
	if err != nil {
		return nil, err
	}

	address := r.target.address()
	dialer := net.Dialer{Timeout: r.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Can't reach '%s' at %s", r.Host, address),
			"Make sure the node is reachable: ssh "+r.Host)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("SSH handshake with '%s' didn't go through", r.Host),
			"Check your keys are loaded: ssh-add -l")
	}

	r.client = ssh.NewClient(sshConn, chans, reqs)
	return r.client, nil
}

// clientConfig builds auth from the agent and any readable unencrypted keys,
// verifying the host against ~/.ssh/known_hosts.
func clientConfig(t *sshTarget) (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod

	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		if conn, err := net.Dial("unix", socket); err == nil {
			auth = append(auth, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	keys := []string{t.identityFile}
	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		keys = append(keys, filepath.Join(homeDir(), ".ssh", name))
	}
	for _, path := range keys {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			continue
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}

	if len(auth) == 0 {
		return nil, errors.New(errors.ErrSSH,
			"No SSH auth methods available",
			"Load a key into the agent (ssh-add) or set IdentityFile in ~/.ssh/config")
	}

	hostKeys, err := knownhosts.New(filepath.Join(homeDir(), ".ssh", "known_hosts"))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't load known_hosts",
			"Connect once by hand so the host key is recorded: ssh <host>")
	}

	return &ssh.ClientConfig{
		User:            t.user,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         10 * time.Second,
	}, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
