// Package cmd implements the mikrotik-backup command-line interface.
//
// The package holds the cobra subcommands (run, verify, install-key) and the
// helpers they share: SSH dialing, RouterOS command execution, SFTP transfer,
// the YAML inventory and the YAML run summary.
//
// Start with runCmd.go for the main flow and backupHost.go for the per-router
// sequence of identity query, export and download. Each step reports a
// typed error kind from errors.go so one router's failure never stops the
// others.
package cmd
