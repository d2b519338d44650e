package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mikrotik-backup",
	Short: "Export and download MikroTik RouterOS configuration backups",
	Long: "Connects to each configured MikroTik router over SSH, runs /export to produce an .rsc " +
		"configuration script, and downloads it over SFTP to the local output directory.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}
