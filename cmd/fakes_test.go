package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/juju/errors"
)

type fakeSession struct {
	stdout []byte
	stderr []byte
	err    error
	delay  time.Duration
	closed bool
}

func (f *fakeSession) Output(cmd string) ([]byte, []byte, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.stdout, f.stderr, f.err
}
func (f *fakeSession) Close() error { f.closed = true; return nil }

type fakeClient struct {
	sess   *fakeSession
	newErr error
}

func (c *fakeClient) NewSession() (session, error) {
	if c.newErr != nil {
		return nil, c.newErr
	}
	return c.sess, nil
}

// Compile-time checks for the fakes
var (
	_ session       = (*fakeSession)(nil)
	_ sessionClient = (*fakeClient)(nil)
	_ routerConn    = (*fakeConn)(nil)
)

// fakeConn emulates a RouterOS session: identity, export into an in-memory
// file system, key import, and SFTP-style file access.
type fakeConn struct {
	identityOut  string
	identityErr  error
	exportStderr string
	openErr      error
	files        map[string]string
	commands     []string
	closes       int
}

func newFakeConn(identity string) *fakeConn {
	return &fakeConn{
		identityOut: "  name: " + identity + "\r\n",
		files:       map[string]string{},
	}
}

func (c *fakeConn) NewSession() (session, error) { return &fakeConnSession{c: c}, nil }

func (c *fakeConn) Open(name string) (io.ReadCloser, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	content, ok := c.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (c *fakeConn) Create(name string) (io.WriteCloser, error) {
	return &fakeRemoteFile{c: c, name: name}, nil
}

func (c *fakeConn) Close() error { c.closes++; return nil }

type fakeRemoteFile struct {
	c    *fakeConn
	name string
	buf  bytes.Buffer
}

func (f *fakeRemoteFile) Write(p []byte) (int, error) { return f.buf.Write(p) }
func (f *fakeRemoteFile) Close() error {
	f.c.files[f.name] = f.buf.String()
	return nil
}

type fakeConnSession struct{ c *fakeConn }

func (s *fakeConnSession) Output(cmd string) ([]byte, []byte, error) {
	c := s.c
	c.commands = append(c.commands, cmd)
	switch {
	case cmd == identityCommand:
		return []byte(c.identityOut), nil, c.identityErr
	case strings.HasPrefix(cmd, "/export file="):
		if c.exportStderr != "" {
			return nil, []byte(c.exportStderr), nil
		}
		name := strings.Trim(strings.TrimPrefix(cmd, "/export file="), `"`)
		c.files[name+".rsc"] = "# by RouterOS 7.14.3\n/system identity\nset name=" + name + "\n"
		return nil, nil, nil
	case strings.HasPrefix(cmd, "/user ssh-keys import "):
		if _, ok := c.files[installedKeyFile]; !ok {
			return nil, []byte("failure: no such item\r\n"), nil
		}
		delete(c.files, installedKeyFile)
		return nil, nil, nil
	}
	return nil, []byte("bad command name\r\n"), nil
}

func (s *fakeConnSession) Close() error { return nil }

func connectionRefused(target string) error {
	return errors.WithType(errors.Errorf("connecting to %s: connection refused", target), ErrConnection)
}
