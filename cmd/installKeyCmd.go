package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// installKeyCmd imports an SSH public key for the backup user on every
// router, so scheduled runs can drop password authentication.
var installKeyCmd = &cobra.Command{
	Use:   "install-key",
	Short: "Import an SSH public key for the backup user on every router",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd.OutOrStdout(), cfgLogLevel); err != nil {
			return err
		}
		if cfgInstallPubKeyPath == "" {
			return errors.New("--install-pubkey is required (path to SSH public key)")
		}
		pubBytes, err := os.ReadFile(expandHome(cfgInstallPubKeyPath))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("public key file not found: %s", cfgInstallPubKeyPath)
			}
			return fmt.Errorf("read public key: %w", err)
		}
		pubKey := []byte(strings.TrimSpace(string(pubBytes)) + "\n")

		hosts, err := hostsFromConfig()
		if err != nil {
			return err
		}

		opts := dialOptionsFromConfig()
		var failures int
		for _, h := range hosts {
			if err := installKeyOnHost(h, opts, pubKey); err != nil {
				failures++
				logger.Errorf("[%s] %s: %v", h.Address, errorKind(err), err)
				continue
			}
			logger.Infof("[%s] SSH key installed for user %s", h.Address, h.Username)
		}
		if failures > 0 {
			return fmt.Errorf("install completed with %d failures", failures)
		}
		return nil
	},
}

func installKeyOnHost(h hostConfig, opts dialOptions, pubKey []byte) error {
	conn, err := connectFunc(h, opts)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return installKey(conn, h.Username, pubKey, h.commandTimeout(cfgCmdTimeout))
}
