package cmd

import "bytes"

// Output executes cmd on the underlying ssh.Session and returns stdout and
// stderr as separate buffers.
func (w sshSessionWrapper) Output(cmd string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	w.s.Stdout = &stdout
	w.s.Stderr = &stderr
	err := w.s.Run(cmd)
	return stdout.Bytes(), stderr.Bytes(), err
}
