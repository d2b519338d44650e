package cmd

import (
	"fmt"
	"strings"
)

// hostsFromConfig loads the inventory named by --inventory, if any, and
// resolves it together with --target and the credential flags.
func hostsFromConfig() ([]hostConfig, error) {
	var inv *inventory
	if cfgInventory != "" {
		loaded, err := loadInventory(cfgInventory)
		if err != nil {
			return nil, fmt.Errorf("failed to read inventory: %w", err)
		}
		inv = loaded
	}
	return resolveHosts(inv, cfgTargets, hostDefaults{
		Username:   strings.TrimSpace(cfgUser),
		Password:   cfgPassword,
		Port:       cfgPort,
		KeyPath:    cfgKeyPath,
		Passphrase: cfgPassphrase,
	})
}

// dialOptionsFromConfig collects the transport flags.
func dialOptionsFromConfig() dialOptions {
	return dialOptions{
		KnownHostsPath: cfgKnownHosts,
		StrictHostKey:  cfgStrictHost,
		Timeout:        cfgConnTimeout,
	}
}

// warnAdminUsers flags routers accessed with the built-in full-rights account.
// Exports only need the read, sensitive and ftp policies.
func warnAdminUsers(hosts []hostConfig) {
	for _, h := range hosts {
		if strings.EqualFold(strings.TrimSpace(h.Username), "admin") {
			logger.Warningf("[%s] using the full-rights admin account; a dedicated read/sensitive/ftp user is safer", h.Address)
		}
	}
}
