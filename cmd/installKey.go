package cmd

import (
	"time"

	"github.com/juju/errors"
)

// installedKeyFile is the name the public key is uploaded under. RouterOS
// deletes the file once the import succeeds.
const installedKeyFile = "mikrotik-backup.pub"

func importKeyCommand(fileName, user string) string {
	return "/user ssh-keys import public-key-file=" + routerosQuote(fileName) + " user=" + routerosQuote(user)
}

// installKey uploads pubKey over SFTP and imports it for user, so later runs
// can authenticate with the matching private key.
func installKey(conn routerConn, user string, pubKey []byte, timeout time.Duration) error {
	w, err := conn.Create(installedKeyFile)
	if err != nil {
		return errors.WithType(errors.Annotatef(err, "creating remote file %s", installedKeyFile), ErrTransfer)
	}
	if _, err := w.Write(pubKey); err != nil {
		_ = w.Close()
		return errors.WithType(errors.Annotatef(err, "uploading %s", installedKeyFile), ErrTransfer)
	}
	if err := w.Close(); err != nil {
		return errors.WithType(errors.Annotatef(err, "uploading %s", installedKeyFile), ErrTransfer)
	}

	cmd := importKeyCommand(installedKeyFile, user)
	res, err := runRemoteCommandFunc(conn, cmd, timeout)
	if len(res.Stderr) > 0 {
		return errors.WithType(&remoteCommandError{Command: cmd, Stderr: string(res.Stderr)}, ErrRemoteCommand)
	}
	if err != nil {
		return errors.WithType(errors.Annotatef(err, "running %q", cmd), ErrRemoteCommand)
	}
	return nil
}
