package cmd

import (
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// sshAuth holds the credentials offered to a router.
type sshAuth struct {
	User       string
	Password   string
	KeyPath    string
	Passphrase string
}

// dialOptions controls host key checking and the transport timeout.
type dialOptions struct {
	KnownHostsPath string
	StrictHostKey  bool
	Timeout        time.Duration
}

// dialSSH establishes an SSH client connection with options. Auth methods are
// offered in order: private key, password, then any running ssh-agent.
func dialSSH(target string, auth sshAuth, opts dialOptions) (*ssh.Client, error) {
	var auths []ssh.AuthMethod

	if auth.KeyPath != "" {
		signer, err := loadSigner(auth.KeyPath, auth.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("load key: %w", err)
		}
		auths = append(auths, ssh.PublicKeys(signer))
	}

	if auth.Password != "" {
		auths = append(auths, ssh.Password(auth.Password))
		// RouterOS answers keyboard-interactive with a single password prompt.
		auths = append(auths, ssh.KeyboardInteractive(passwordChallenge(auth.Password)))
	}

	if a := os.Getenv("SSH_AUTH_SOCK"); a != "" {
		if agentConn, err := agentDial("unix", a); err == nil {
			// Agent signatures are only needed during the handshake.
			defer func() { _ = agentConn.Close() }()
			ag := agent.NewClient(agentConn)
			auths = append(auths, ssh.PublicKeysCallback(ag.Signers))
		}
	}

	var hostKeyCB ssh.HostKeyCallback
	if opts.StrictHostKey {
		// Try known_hosts file if present; else fail closed
		if _, err := os.Stat(opts.KnownHostsPath); err == nil {
			cb, err := knownhosts.New(opts.KnownHostsPath)
			if err != nil {
				return nil, fmt.Errorf("known_hosts: %w", err)
			}
			hostKeyCB = cb
		} else {
			return nil, fmt.Errorf("known_hosts file not found at %s and strict-host-key is enabled", opts.KnownHostsPath)
		}
	} else {
		hostKeyCB = ssh.InsecureIgnoreHostKey()
	}

	cfg := &ssh.ClientConfig{
		User:            auth.User,
		Auth:            auths,
		HostKeyCallback: hostKeyCB,
		Timeout:         opts.Timeout,
	}

	d := net.Dialer{Timeout: opts.Timeout}
	conn, err := d.Dial("tcp", target)
	if err != nil {
		return nil, err
	}
	if opts.Timeout > 0 {
		// Bound the handshake too; cleared once the client is up.
		_ = conn.SetDeadline(time.Now().Add(opts.Timeout))
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, target, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})
	return ssh.NewClient(c, chans, reqs), nil
}

// passwordChallenge answers every keyboard-interactive question with password.
func passwordChallenge(password string) ssh.KeyboardInteractiveChallenge {
	return func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range answers {
			answers[i] = password
		}
		return answers, nil
	}
}
