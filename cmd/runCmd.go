package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// runCmd backs up every configured router in turn, downloads the exports to
// the output directory and optionally writes a YAML summary. It fails when
// any router failed, but only after all routers have been attempted.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Export and download configuration backups from all routers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd.OutOrStdout(), cfgLogLevel); err != nil {
			return err
		}
		hosts, err := hostsFromConfig()
		if err != nil {
			return err
		}
		warnAdminUsers(hosts)

		outDir := cfgOutDir
		if outDir == "" {
			if outDir, err = os.Getwd(); err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}

		opts := dialOptionsFromConfig()
		runner := &backupRunner{
			Connect: func(h hostConfig) (routerConn, error) {
				return connectFunc(h, opts)
			},
			Clock:      backupClock,
			OutDir:     outDir,
			CmdTimeout: cfgCmdTimeout,
		}
		results := runner.runBackups(hosts)

		report := newYAMLReport(backupClock.Now())
		var total uint64
		for _, res := range results {
			report.addResult(res)
			total += uint64(res.Bytes)
		}
		logger.Infof("Backup finished: %d succeeded, %d failed, %s downloaded", report.Succeeded, report.Failed, humanize.Bytes(total))

		if cfgReportPath != "" {
			if err := writeReportFile(cfgReportPath, report); err != nil {
				return err
			}
		}
		if report.Failed > 0 {
			return fmt.Errorf("backup completed with %d failures", report.Failed)
		}
		return nil
	},
}

func writeReportFile(path string, report *yamlReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := writeYAMLReport(f, report); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write YAML report: %w", err)
	}
	return f.Close()
}
