package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// loadInventory reads and validates the YAML inventory. Every router needs a
// non-empty address; everything else may come from defaults or flags.
func loadInventory(path string) (*inventory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	inv := &inventory{}
	if err := yamlUnmarshal(b, inv); err != nil {
		return nil, err
	}
	if len(inv.Routers) == 0 {
		return nil, errors.New("inventory.routers must list at least one router")
	}
	for i, r := range inv.Routers {
		if strings.TrimSpace(r.Address) == "" {
			return nil, fmt.Errorf("routers[%d].address is required", i)
		}
		if r.Port < 0 || r.Port > 65535 {
			return nil, fmt.Errorf("routers[%d].port %d is out of range", i, r.Port)
		}
		if r.Timeout != "" {
			if _, err := time.ParseDuration(r.Timeout); err != nil {
				return nil, fmt.Errorf("routers[%d].timeout: %w", i, err)
			}
		}
	}
	return inv, nil
}

// resolveHosts builds the final host list in inventory order followed by any
// --target addresses. Per-router values win, then flags, then the inventory
// defaults block.
func resolveHosts(inv *inventory, targets []string, flags hostDefaults) ([]hostConfig, error) {
	var hosts []hostConfig
	if inv != nil {
		defaults := flags.merge(inv.Defaults)
		for _, r := range inv.Routers {
			hosts = append(hosts, r.withDefaults(defaults))
		}
	}
	for _, t := range targets {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		hosts = append(hosts, hostConfig{Address: t}.withDefaults(flags))
	}
	if len(hosts) == 0 {
		return nil, errors.New("no routers configured: pass --inventory or --target")
	}
	for _, h := range hosts {
		if h.Username == "" {
			return nil, fmt.Errorf("router %s has no username; set it in the inventory or pass --user", h.Address)
		}
	}
	return hosts, nil
}
