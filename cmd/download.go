package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

const partialSuffix = ".part"

// downloadFile streams remoteName from the router into localPath, replacing
// any existing file only once the copy has completed. The data is staged in
// localPath+".part", which is removed on failure.
func downloadFile(files fileStore, remoteName, localPath string) (int64, error) {
	src, err := files.Open(remoteName)
	if err != nil {
		return 0, errors.WithType(errors.Annotatef(err, "opening remote file %s", remoteName), ErrTransfer)
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return 0, errors.WithType(errors.Annotate(err, "creating output directory"), ErrTransfer)
	}
	partPath := localPath + partialSuffix
	dst, err := os.Create(partPath)
	if err != nil {
		return 0, errors.WithType(errors.Annotatef(err, "creating %s", partPath), ErrTransfer)
	}
	n, err := io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		_ = os.Remove(partPath)
		return n, errors.WithType(errors.Annotatef(err, "copying %s", remoteName), ErrTransfer)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(partPath)
		return n, errors.WithType(errors.Annotatef(err, "writing %s", partPath), ErrTransfer)
	}
	if err := os.Rename(partPath, localPath); err != nil {
		_ = os.Remove(partPath)
		return n, errors.WithType(errors.Annotatef(err, "moving download to %s", localPath), ErrTransfer)
	}
	return n, nil
}
