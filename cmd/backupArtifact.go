package cmd

import (
	"path/filepath"
	"time"
)

const (
	exportExtension  = ".rsc"
	backupDateFormat = "2006-01-02"
)

// backupArtifact names one backup: the router identity plus the local date.
// A second run on the same day produces the same names and overwrites the
// earlier download.
type backupArtifact struct {
	Identity   string
	Date       string
	BackupName string
	RemoteName string
	LocalPath  string
}

// newBackupArtifact expects an identity already checked by parseIdentity.
// LocalPath keeps only the final path element of the remote name.
func newBackupArtifact(identity string, now time.Time, outDir string) backupArtifact {
	date := now.Format(backupDateFormat)
	name := identity + "_" + date
	remote := name + exportExtension
	return backupArtifact{
		Identity:   identity,
		Date:       date,
		BackupName: name,
		RemoteName: remote,
		LocalPath:  filepath.Join(outDir, filepath.Base(remote)),
	}
}
