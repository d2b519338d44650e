package cmd

import (
	"bufio"
	"bytes"
	"strings"
	"time"

	"github.com/juju/errors"
)

const identityCommand = "/system identity print"

// getIdentity asks the router for its configured name. The name becomes the
// base of the backup file name.
func getIdentity(client sessionClient, timeout time.Duration) (string, error) {
	res, err := runRemoteCommandFunc(client, identityCommand, timeout)
	if err != nil {
		return "", errors.WithType(errors.Annotatef(err, "running %q", identityCommand), ErrProtocol)
	}
	return parseIdentity(res.Stdout)
}

// parseIdentity returns the trimmed text after the first colon on the first
// line containing "name:".
func parseIdentity(out []byte) (string, error) {
	s := bufio.NewScanner(bytes.NewReader(out))
	for s.Scan() {
		line := s.Text()
		if !strings.Contains(line, "name:") {
			continue
		}
		_, value, _ := strings.Cut(line, ":")
		name := strings.TrimSpace(value)
		if name == "" {
			return "", errors.WithType(errors.Errorf("router reported an empty identity"), ErrProtocol)
		}
		if !safeIdentity(name) {
			return "", errors.WithType(errors.Errorf("router identity %q cannot be used as a file name", name), ErrProtocol)
		}
		return name, nil
	}
	if err := s.Err(); err != nil {
		return "", errors.WithType(errors.Annotate(err, "reading identity output"), ErrProtocol)
	}
	return "", errors.WithType(errors.Errorf("could not retrieve router identity: no name line in %q output", identityCommand), ErrProtocol)
}

// safeIdentity reports whether name stays a single path element once it is
// used as the base of the backup file name.
func safeIdentity(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}
