package cmd

import (
	"time"

	"github.com/juju/errors"
)

// exportCommand builds the RouterOS command that writes the configuration
// script to <backupName>.rsc on the router.
func exportCommand(backupName string) string {
	return "/export file=" + routerosQuote(backupName)
}

// requestExport asks the router to export its configuration. RouterOS gives
// no reliable exit status, so any stderr text is treated as failure and
// returned verbatim.
func requestExport(client sessionClient, backupName string, timeout time.Duration) error {
	cmd := exportCommand(backupName)
	res, err := runRemoteCommandFunc(client, cmd, timeout)
	if len(res.Stderr) > 0 {
		return errors.WithType(&remoteCommandError{Command: cmd, Stderr: string(res.Stderr)}, ErrRemoteCommand)
	}
	if err != nil {
		return errors.WithType(errors.Annotatef(err, "running %q", cmd), ErrRemoteCommand)
	}
	return nil
}
