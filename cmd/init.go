package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix prefixes every environment override, e.g. MIKROTIK_BACKUP_PASSWORD.
const envPrefix = "MIKROTIK_BACKUP"

// init configures the root command's persistent flags, binds them to
// environment variables via Viper, and registers all subcommands.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgInventory, "inventory", "i", "", "Path to YAML inventory listing the routers")
	flags.StringSliceVarP(&cfgTargets, "target", "t", nil, "Router address (host or host:port); repeatable, appended after the inventory")
	flags.StringVarP(&cfgUser, "user", "u", "", "SSH username for routers that do not set one")
	flags.StringVar(&cfgPassword, "password", "", "SSH password (or set MIKROTIK_BACKUP_PASSWORD)")
	flags.StringVar(&cfgKeyPath, "key", "", "Path to SSH private key (PEM, OpenSSH)")
	flags.StringVar(&cfgPassphrase, "passphrase", "", "Private key passphrase (or set MIKROTIK_BACKUP_PASSPHRASE)")
	flags.IntVar(&cfgPort, "port", 0, "SSH port for routers that do not set one (default 22)")
	flags.StringVar(&cfgKnownHosts, "known-hosts", filepath.Join(os.Getenv("HOME"), ".ssh", "known_hosts"), "Path to known_hosts file")
	flags.BoolVar(&cfgStrictHost, "strict-host-key", true, "Require host key verification (disable to accept any host key)")
	flags.DurationVar(&cfgCmdTimeout, "cmd-timeout", 0, "Per-command timeout (e.g., 2m). 0 disables")
	flags.DurationVar(&cfgConnTimeout, "conn-timeout", 15*time.Second, "Connection timeout")
	flags.StringVarP(&cfgOutDir, "out-dir", "o", "", "Directory for downloaded backups (default: current directory)")
	flags.StringVar(&cfgReportPath, "report", "", "Optional path for a YAML run summary")
	flags.StringVar(&cfgLogLevel, "log-level", "INFO", "Log level (TRACE, DEBUG, INFO, WARNING, ERROR)")
	flags.StringVar(&cfgInstallPubKeyPath, "install-pubkey", "", "Path to SSH public key to import on each router (install-key subcommand)")

	for _, name := range []string{
		"inventory", "target", "user", "password", "key", "passphrase", "port",
		"known-hosts", "strict-host-key", "cmd-timeout", "conn-timeout",
		"out-dir", "report", "log-level", "install-pubkey",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	cobra.OnInitialize(applyEnvOverrides)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(installKeyCmd)
}

// applyEnvOverrides pulls values set only through the environment into the
// cfg variables. Flags given on the command line are already reflected by
// viper, so they win.
func applyEnvOverrides() {
	setString := func(dst *string, key string) {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	setString(&cfgInventory, "inventory")
	setString(&cfgUser, "user")
	setString(&cfgPassword, "password")
	setString(&cfgKeyPath, "key")
	setString(&cfgPassphrase, "passphrase")
	setString(&cfgKnownHosts, "known-hosts")
	setString(&cfgOutDir, "out-dir")
	setString(&cfgReportPath, "report")
	setString(&cfgLogLevel, "log-level")
	setString(&cfgInstallPubKeyPath, "install-pubkey")

	if v := viper.GetStringSlice("target"); len(v) > 0 {
		cfgTargets = v
	}
	if v := viper.GetInt("port"); v != 0 {
		cfgPort = v
	}
	if v := viper.GetString("cmd-timeout"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfgCmdTimeout = d
		}
	}
	if v := viper.GetString("conn-timeout"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfgConnTimeout = d
		}
	}
	if viper.IsSet("strict-host-key") {
		cfgStrictHost = viper.GetBool("strict-host-key")
	}
}
