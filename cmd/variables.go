package cmd

import (
	"net"
	"time"

	"github.com/juju/clock"
)

// Version is the CLI version string injected at build time via -ldflags.
var Version = "0.1.0"

var (
	// Global configuration populated by flags and/or environment variables.
	// These are declared here so they are visible across subcommands.
	cfgInventory         string
	cfgTargets           []string
	cfgUser              string
	cfgPassword          string
	cfgKeyPath           string
	cfgPassphrase        string
	cfgPort              int
	cfgKnownHosts        string
	cfgStrictHost        bool
	cfgCmdTimeout        time.Duration
	cfgConnTimeout       time.Duration
	cfgOutDir            string
	cfgReportPath        string
	cfgLogLevel          string
	cfgInstallPubKeyPath string
)

// Allow tests to stub dialing, connecting and command execution
var (
	dialSSHFunc          = dialSSH
	connectFunc          = connectRouter
	runRemoteCommandFunc = runRemoteCommand
	agentDial            = net.Dial
)

// backupClock dates the backup names.
var backupClock clock.Clock = clock.WallClock
