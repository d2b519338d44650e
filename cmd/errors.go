package cmd

import (
	"github.com/juju/errors"
)

// Error kinds reported per host. Callers match them with errors.Is; the
// concrete cause stays reachable through Unwrap.
const (
	ErrConnection    = errors.ConstError("connection error")
	ErrProtocol      = errors.ConstError("protocol error")
	ErrRemoteCommand = errors.ConstError("remote command error")
	ErrTransfer      = errors.ConstError("transfer error")
)

// remoteCommandError carries the verbatim stderr text of a failed router
// command.
type remoteCommandError struct {
	Command string
	Stderr  string
}

func (e *remoteCommandError) Error() string {
	return "command " + e.Command + " reported: " + e.Stderr
}

// errorKind names the kind of err for reports and log lines.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConnection):
		return string(ErrConnection)
	case errors.Is(err, ErrProtocol):
		return string(ErrProtocol)
	case errors.Is(err, ErrRemoteCommand):
		return string(ErrRemoteCommand)
	case errors.Is(err, ErrTransfer):
		return string(ErrTransfer)
	}
	return "error"
}
