package sshserv

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Router describes the RouterOS device the server pretends to be.
type Router struct {
	// Identity is printed by "/system identity print".
	Identity string
	// ExportStderr, when set, is written to stderr by /export and no file is
	// created.
	ExportStderr string
	// Dir backs the router's file system for /export output and SFTP.
	Dir string
	// Password, when set, is required for password and keyboard-interactive
	// auth. With no password and no imported keys any client is accepted.
	Password string
	// NoSFTP rejects the sftp subsystem, as RouterOS does for users without
	// the ftp policy.
	NoSFTP bool
}

// Server is a minimal SSH server emulating the RouterOS console commands used
// for backups, plus the SFTP subsystem over Router.Dir.
type Server struct {
	router  Router
	ln      net.Listener
	done    chan struct{}
	hostKey ssh.PublicKey

	mu       sync.Mutex
	conns    []net.Conn
	commands []string
	keys     map[string][]ssh.PublicKey
}

// Start launches a test SSH server listening on listenAddr (e.g.,
// 127.0.0.1:0). Stop must be called to release the listener.
func Start(listenAddr string, r Router) (*Server, error) {
	if r.Dir == "" {
		return nil, errors.New("sshserv: Router.Dir is required")
	}
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:  r,
		ln:      ln,
		done:    make(chan struct{}),
		hostKey: signer.PublicKey(),
		keys:    make(map[string][]ssh.PublicKey),
	}
	cfg := s.serverConfig()
	cfg.AddHostKey(signer)

	go func() {
		defer close(s.done)
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.conns = append(s.conns, conn)
			s.mu.Unlock()
			go s.handleConn(conn, cfg)
		}
	}()
	return s, nil
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// HostKey returns the server's public host key, for known_hosts files.
func (s *Server) HostKey() ssh.PublicKey { return s.hostKey }

// Stop closes the listener and every open connection.
func (s *Server) Stop() {
	_ = s.ln.Close()
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.Close()
	}
	s.conns = nil
}

// Commands returns every exec command received, in order.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// ImportedKeys returns the public keys imported for user with
// "/user ssh-keys import".
func (s *Server) ImportedKeys(user string) []ssh.PublicKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ssh.PublicKey(nil), s.keys[user]...)
}

func (s *Server) serverConfig() *ssh.ServerConfig {
	cfg := &ssh.ServerConfig{}
	if s.router.Password == "" {
		cfg.NoClientAuth = true
	}
	cfg.PasswordCallback = func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
		if s.router.Password != "" && string(pass) == s.router.Password {
			return nil, nil
		}
		return nil, errors.New("invalid user name or password")
	}
	cfg.KeyboardInteractiveCallback = func(c ssh.ConnMetadata, client ssh.KeyboardInteractiveChallenge) (*ssh.Permissions, error) {
		answers, err := client(c.User(), "", []string{"password: "}, []bool{false})
		if err != nil {
			return nil, err
		}
		if s.router.Password != "" && len(answers) == 1 && answers[0] == s.router.Password {
			return nil, nil
		}
		return nil, errors.New("invalid user name or password")
	}
	cfg.PublicKeyCallback = func(c ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
		for _, k := range s.ImportedKeys(c.User()) {
			if bytes.Equal(k.Marshal(), key.Marshal()) {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("unknown public key for %q", c.User())
	}
	return cfg
}

func (s *Server) handleConn(raw net.Conn, cfg *ssh.ServerConfig) {
	sc, chans, reqs, err := ssh.NewServerConn(raw, cfg)
	if err != nil {
		_ = raw.Close()
		return
	}
	defer sc.Close()
	go ssh.DiscardRequests(reqs)
	for ch := range chans {
		if ch.ChannelType() != "session" {
			_ = ch.Reject(ssh.UnknownChannelType, "")
			continue
		}
		c, reqs, err := ch.Accept()
		if err != nil {
			continue
		}
		go s.handleSession(c, reqs)
	}
}

func (s *Server) handleSession(ch ssh.Channel, in <-chan *ssh.Request) {
	defer ch.Close()
	for req := range in {
		switch req.Type {
		case "exec":
			var p struct{ Command string }
			if err := ssh.Unmarshal(req.Payload, &p); err != nil {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			go ssh.DiscardRequests(in)
			status := s.exec(ch, p.Command)
			_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
			return
		case "subsystem":
			var p struct{ Name string }
			if err := ssh.Unmarshal(req.Payload, &p); err != nil || p.Name != "sftp" || s.router.NoSFTP {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			go ssh.DiscardRequests(in)
			srv, err := sftp.NewServer(ch, sftp.WithServerWorkingDirectory(s.router.Dir))
			if err != nil {
				return
			}
			_ = srv.Serve()
			return
		case "pty-req", "env":
			_ = req.Reply(true, nil)
		default:
			_ = req.Reply(false, nil)
		}
	}
}

// exec runs one console command and returns its exit status. Like RouterOS,
// failures are reported on stderr with a zero status.
func (s *Server) exec(ch ssh.Channel, cmd string) uint32 {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()

	switch {
	case strings.TrimSpace(cmd) == "/system identity print":
		_, _ = fmt.Fprintf(ch, "  name: %s\r\n", s.router.Identity)
	case strings.HasPrefix(cmd, "/export file="):
		if s.router.ExportStderr != "" {
			_, _ = io.WriteString(ch.Stderr(), s.router.ExportStderr)
			return 0
		}
		name := unquote(strings.TrimPrefix(cmd, "/export file="))
		if err := os.WriteFile(filepath.Join(s.router.Dir, name+".rsc"), exportScript(s.router.Identity), 0o644); err != nil {
			_, _ = fmt.Fprintf(ch.Stderr(), "failure: %v\r\n", err)
		}
	case strings.HasPrefix(cmd, "/user ssh-keys import "):
		args := parseArgs(strings.TrimPrefix(cmd, "/user ssh-keys import "))
		if err := s.importKey(args["public-key-file"], args["user"]); err != nil {
			_, _ = fmt.Fprintf(ch.Stderr(), "failure: %v\r\n", err)
		}
	default:
		_, _ = io.WriteString(ch.Stderr(), "bad command name\r\n")
		return 1
	}
	return 0
}

func (s *Server) importKey(file, user string) error {
	if file == "" || user == "" {
		return errors.New("public-key-file and user are required")
	}
	path := filepath.Join(s.router.Dir, file)
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.New("no such item")
	}
	key, _, _, _, err := ssh.ParseAuthorizedKey(b)
	if err != nil {
		return errors.New("unable to load key file (wrong format or bad passphrase)")
	}
	_ = os.Remove(path)
	s.mu.Lock()
	s.keys[user] = append(s.keys[user], key)
	s.mu.Unlock()
	return nil
}

func exportScript(identity string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s by RouterOS 7.14.3\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString("# software id = TEST-0000\n#\n")
	b.WriteString("/system identity\n")
	fmt.Fprintf(&b, "set name=%q\n", identity)
	return b.Bytes()
}

// unquote reverses RouterOS double-quoting of a single value.
func unquote(v string) string {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}
	v = v[1 : len(v)-1]
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c != '\\' || i+1 == len(v) {
			b.WriteByte(c)
			continue
		}
		i++
		switch v[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(v[i])
		}
	}
	return b.String()
}

// parseArgs splits "k=v k2=\"v 2\"" into a map, honouring double quotes.
func parseArgs(s string) map[string]string {
	out := make(map[string]string)
	var tok strings.Builder
	inQuote := false
	flush := func() {
		if k, v, ok := strings.Cut(tok.String(), "="); ok {
			out[k] = unquote(v)
		}
		tok.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && inQuote && i+1 < len(s):
			tok.WriteByte(c)
			i++
			tok.WriteByte(s[i])
		case c == '"':
			inQuote = !inQuote
			tok.WriteByte(c)
		case c == ' ' && !inQuote:
			flush()
		default:
			tok.WriteByte(c)
		}
	}
	flush()
	return out
}
