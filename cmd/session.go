package cmd

// session is a minimal interface for running one router command and closing.
// RouterOS reports command failures on stderr while usually exiting zero, so
// the two streams are kept apart.
type session interface {
	Output(cmd string) (stdout, stderr []byte, err error)
	Close() error
}
