package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	srv "github.com/danialtorkmandi/mikrotik/tools/sshserv"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:20222", "address to listen on")
	identity := flag.String("identity", "TestRouter", "identity reported by /system identity print")
	dir := flag.String("dir", "", "directory backing the router file system (default: a temp dir)")
	password := flag.String("password", "", "require this password (default: accept any client)")
	exportStderr := flag.String("export-stderr", "", "text /export writes to stderr instead of creating a file")
	flag.Parse()

	if *dir == "" {
		tmp, err := os.MkdirTemp("", "routeros-*")
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "failed to create temp dir:", err)
			os.Exit(1)
		}
		defer os.RemoveAll(tmp)
		*dir = tmp
	}

	s, err := srv.Start(*listen, srv.Router{
		Identity:     *identity,
		ExportStderr: *exportStderr,
		Dir:          *dir,
		Password:     *password,
	})
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "failed to start test ssh server:", err)
		os.Exit(1)
	}
	_, _ = fmt.Fprintf(os.Stderr, "test RouterOS ssh server listening on %s (files in %s)\n", s.Addr(), *dir)
	defer s.Stop()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
