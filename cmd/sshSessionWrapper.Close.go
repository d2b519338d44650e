package cmd

import (
	"errors"
	"io"
)

// Close closes the underlying ssh.Session. RouterOS tears the exec channel
// down as soon as a command finishes, so io.EOF here is expected.
func (w sshSessionWrapper) Close() error {
	if err := w.s.Close(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
