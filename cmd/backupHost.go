package cmd

import (
	"time"

	"github.com/juju/clock"
)

// hostStatus is the outcome of one router's backup attempt.
type hostStatus string

const (
	statusOK     hostStatus = "ok"
	statusFailed hostStatus = "failed"
)

// hostResult is the typed per-host outcome returned by the backup runner.
type hostResult struct {
	Address    string
	Identity   string
	BackupName string
	LocalPath  string
	Bytes      int64
	Status     hostStatus
	Err        error
}

// backupRunner takes configuration backups host by host. Connect is the only
// way a session is acquired, which keeps tests free of the network.
type backupRunner struct {
	Connect    func(hostConfig) (routerConn, error)
	Clock      clock.Clock
	OutDir     string
	CmdTimeout time.Duration
}

// runBackups backs up every host in order. A failing host never stops the
// ones after it.
func (r *backupRunner) runBackups(hosts []hostConfig) []hostResult {
	results := make([]hostResult, 0, len(hosts))
	for _, h := range hosts {
		results = append(results, r.backupHost(h))
	}
	return results
}

// backupHost runs connect, identify, export and download for one router. The
// session is released on every path once it has been opened.
func (r *backupRunner) backupHost(host hostConfig) (res hostResult) {
	addr := host.Address
	res = hostResult{Address: addr, Status: statusOK}
	defer func() {
		if res.Err != nil {
			res.Status = statusFailed
			logger.Errorf("[%s] %s: %v", addr, errorKind(res.Err), res.Err)
		}
	}()

	timeout := host.commandTimeout(r.CmdTimeout)

	logger.Debugf("[%s] connecting to %s as %s", addr, host.target(), host.Username)
	conn, err := r.Connect(host)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warningf("[%s] closing session: %v", addr, err)
		}
	}()

	logger.Infof("[%s] Retrieving router identity...", addr)
	identity, err := getIdentity(conn, timeout)
	if err != nil {
		res.Err = err
		return res
	}
	res.Identity = identity
	logger.Infof("[%s] Router identity retrieved: %s", addr, identity)

	art := newBackupArtifact(identity, r.Clock.Now(), r.OutDir)
	res.BackupName = art.BackupName

	logger.Infof("[%s] Taking RSC backup %s...", addr, art.BackupName)
	if err := requestExport(conn, art.BackupName, timeout); err != nil {
		res.Err = err
		return res
	}
	logger.Infof("[%s] RSC backup created successfully.", addr)

	logger.Infof("[%s] Downloading backup...", addr)
	n, err := downloadFile(conn, art.RemoteName, art.LocalPath)
	if err != nil {
		res.Err = err
		return res
	}
	res.LocalPath = art.LocalPath
	res.Bytes = n
	logger.Infof("[%s] Backup downloaded successfully to %s (%d bytes).", addr, art.LocalPath, n)
	return res
}
