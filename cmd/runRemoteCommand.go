package cmd

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/ssh"
)

// commandResult is the outcome of one router command.
type commandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// runRemoteCommand runs cmd on a fresh session obtained from client. A zero
// timeout waits for the command forever, which is what RouterOS exports need
// on slow devices.
func runRemoteCommand(client sessionClient, cmd string, timeout time.Duration) (commandResult, error) {
	type result struct {
		res commandResult
		err error
	}

	run := func() result {
		currSession, err := client.NewSession()
		if err != nil {
			return result{commandResult{ExitCode: -1}, err}
		}
		defer func() { _ = currSession.Close() }()

		stdout, stderr, err := currSession.Output(cmd)
		res := commandResult{Stdout: stdout, Stderr: stderr}
		if err == nil {
			return result{res, nil}
		}
		// Try to derive exit status
		res.ExitCode = -1
		var ee *ssh.ExitError
		if errors.As(err, &ee) {
			res.ExitCode = ee.ExitStatus()
		}
		return result{res, err}
	}

	if timeout <= 0 {
		r := run()
		return r.res, r.err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ch := make(chan result, 1)
	go func() { ch <- run() }()

	select {
	case r := <-ch:
		return r.res, r.err
	case <-ctx.Done():
		return commandResult{ExitCode: -1}, context.DeadlineExceeded
	}
}
