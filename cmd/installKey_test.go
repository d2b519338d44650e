package cmd

import (
	"io"
	"testing"

	jujuerrors "github.com/juju/errors"
	"github.com/stretchr/testify/require"
)

func TestInstallKey_UploadsAndImports(t *testing.T) {
	conn := newFakeConn("R")
	require.NoError(t, installKey(conn, "backup", []byte("ssh-ed25519 AAAA test\n"), 0))
	require.Equal(t, []string{"/user ssh-keys import public-key-file=mikrotik-backup.pub user=backup"}, conn.commands)
	require.NotContains(t, conn.files, installedKeyFile)
}

func TestInstallKey_ImportStderrFails(t *testing.T) {
	conn := &importFailConn{fakeConn: newFakeConn("R")}
	err := installKey(conn, "backup", []byte("ssh-ed25519 AAAA\n"), 0)
	require.True(t, jujuerrors.Is(err, ErrRemoteCommand))
}

// importFailConn drops uploads so the import step cannot find the key.
type importFailConn struct{ *fakeConn }

func (c *importFailConn) Create(name string) (io.WriteCloser, error) {
	return nopWriteCloser{}, nil
}

type nopWriteCloser struct{}

func (nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriteCloser) Close() error                { return nil }

func TestImportKeyCommand_QuotesUser(t *testing.T) {
	require.Equal(t, `/user ssh-keys import public-key-file=k.pub user="backup ops"`, importKeyCommand("k.pub", "backup ops"))
}
