package cmd

import (
	"io"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// fileStore is the file transfer half of a router session.
type fileStore interface {
	Open(name string) (io.ReadCloser, error)
	Create(name string) (io.WriteCloser, error)
}

// routerConn is one authenticated session to a router, used both for command
// execution and for file transfer. It is owned by a single backup attempt and
// must be closed exactly once.
type routerConn interface {
	sessionClient
	fileStore
	Close() error
}

// sshRouterConn implements routerConn over an *ssh.Client. The SFTP
// subsystem is opened lazily on the same connection.
type sshRouterConn struct {
	client *ssh.Client
	sftp   *sftp.Client
}

func (c *sshRouterConn) NewSession() (session, error) {
	return sshClientWrapper{c.client}.NewSession()
}

func (c *sshRouterConn) files() (*sftp.Client, error) {
	if c.sftp == nil {
		sc, err := sftp.NewClient(c.client)
		if err != nil {
			return nil, err
		}
		c.sftp = sc
	}
	return c.sftp, nil
}

func (c *sshRouterConn) Open(name string) (io.ReadCloser, error) {
	fs, err := c.files()
	if err != nil {
		return nil, err
	}
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (c *sshRouterConn) Create(name string) (io.WriteCloser, error) {
	fs, err := c.files()
	if err != nil {
		return nil, err
	}
	f, err := fs.Create(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Close shuts the SFTP client, if any, and then the SSH connection.
func (c *sshRouterConn) Close() error {
	var sftpErr error
	if c.sftp != nil {
		sftpErr = c.sftp.Close()
		c.sftp = nil
	}
	if err := c.client.Close(); err != nil {
		return err
	}
	return sftpErr
}
