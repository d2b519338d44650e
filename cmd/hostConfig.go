package cmd

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// defaultSSHPort is used when neither the entry, the inventory defaults nor
// --port name one.
const defaultSSHPort = 22

// hostConfig describes one router to back up. It is read-only once the
// inventory has been resolved.
type hostConfig struct {
	Address    string `yaml:"address"`
	Username   string `yaml:"username,omitempty"`
	Password   string `yaml:"password,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	KeyPath    string `yaml:"key,omitempty"`
	Passphrase string `yaml:"passphrase,omitempty"`
	// Optional command timeout like "2m"; overrides --cmd-timeout if set
	Timeout string `yaml:"timeout,omitempty"`
}

// target returns the host:port string to dial. An explicit Port overrides a
// port embedded in Address.
func (h hostConfig) target() string {
	host, port := splitAddress(strings.TrimSpace(h.Address))
	if h.Port > 0 {
		port = h.Port
	}
	if port <= 0 {
		port = defaultSSHPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func (h hostConfig) auth() sshAuth {
	return sshAuth{
		User:       h.Username,
		Password:   h.Password,
		KeyPath:    h.KeyPath,
		Passphrase: h.Passphrase,
	}
}

// commandTimeout returns the per-router timeout, or defaultTimeout when the
// entry has none or it does not parse.
func (h hostConfig) commandTimeout(defaultTimeout time.Duration) time.Duration {
	if h.Timeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(h.Timeout)
	if err != nil {
		return defaultTimeout
	}
	return d
}

// withDefaults fills unset fields from d. A port embedded in Address counts
// as set.
func (h hostConfig) withDefaults(d hostDefaults) hostConfig {
	if h.Username == "" {
		h.Username = d.Username
	}
	if h.Password == "" {
		h.Password = d.Password
	}
	if h.KeyPath == "" {
		h.KeyPath = d.KeyPath
	}
	if h.Passphrase == "" {
		h.Passphrase = d.Passphrase
	}
	if _, p := splitAddress(strings.TrimSpace(h.Address)); h.Port == 0 && p == 0 {
		h.Port = d.Port
	}
	return h
}

// splitAddress separates an optional port from addr. Bare IPv6 literals are
// returned unchanged with a zero port.
func splitAddress(addr string) (string, int) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.Trim(addr, "[]"), 0
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return host, 0
	}
	return host, port
}
