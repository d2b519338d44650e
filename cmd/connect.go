package cmd

import (
	"github.com/juju/errors"
)

// connectRouter opens an authenticated session to host. Every failure,
// whether dial, handshake or auth, is reported as ErrConnection.
func connectRouter(host hostConfig, opts dialOptions) (routerConn, error) {
	target := host.target()
	client, err := dialSSHFunc(target, host.auth(), opts)
	if err != nil {
		return nil, errors.WithType(errors.Annotatef(err, "connecting to %s", target), ErrConnection)
	}
	if client == nil {
		return nil, errors.WithType(errors.Errorf("connecting to %s: no client", target), ErrConnection)
	}
	return &sshRouterConn{client: client}, nil
}
