// Package ssh lets scripts log in to the target and run things on it.
//
// Sessions are numbered from 1 and live until ssh_disconnect or until the table is
// closed. Anything that goes wrong on the wire is reported as an I/O error, so that
// an unreachable host doesn't look like a bug in the script.
package ssh

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"github.com/tim-hardcastle/scanscript/source/args"
	"github.com/tim-hardcastle/scanscript/source/builtins"
	"github.com/tim-hardcastle/scanscript/source/fnerr"
	"github.com/tim-hardcastle/scanscript/source/register"
	"github.com/tim-hardcastle/scanscript/source/values"
)

const DEFAULT_PORT = 22

type Sessions struct {
	mu             sync.Mutex
	next           int64
	clients        map[int64]*session
	defaultTimeout time.Duration
	log            logrus.FieldLogger
}

type session struct {
	client *ssh.Client
	host   string
	login  string
}

func New(defaultTimeout time.Duration, log logrus.FieldLogger) *Sessions {
	return &Sessions{clients: map[int64]*session{}, defaultTimeout: defaultTimeout, log: log}
}

func (s *Sessions) Module() builtins.Module {
	return builtins.NewTable("ssh", map[string]builtins.Function{
		"ssh_connect":      s.connect,
		"ssh_request_exec": s.requestExec,
		"ssh_get_file":     s.getFile,
		"ssh_disconnect":   s.disconnect,
	})
}

// Close drops every session that's still open.
func (s *Sessions) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result error
	for id, sess := range s.clients {
		if err := sess.client.Close(); err != nil && result == nil {
			result = err
		}
		delete(s.clients, id)
	}
	return result
}

func (s *Sessions) add(sess *session) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.clients[s.next] = sess
	return s.next
}

func (s *Sessions) get(id int64) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.clients[id]
	if !ok {
		return nil, fnerr.FromBuiltin(fnerr.Builtin("ssh/session", id))
	}
	return sess, nil
}

func (s *Sessions) remove(id int64) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.clients[id]
	delete(s.clients, id)
	return sess, ok
}

func authMethods(reg *register.Register) ([]ssh.AuthMethod, error) {
	methods := []ssh.AuthMethod{}
	key, ok, err := args.NamedData(reg, "privatekey", false)
	if err != nil {
		return nil, err
	}
	if ok {
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fnerr.FromBuiltin(fnerr.BuiltinWrapping(err, "ssh/key", err))
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	password, ok, err := args.NamedString(reg, "password", false)
	if err != nil {
		return nil, err
	}
	if ok {
		methods = append(methods, ssh.Password(password))
	}
	if len(methods) == 0 {
		return nil, fnerr.FromBuiltin(fnerr.Builtin("ssh/credentials"))
	}
	return methods, nil
}

// ssh_connect(host:, port:, login:, password:, privatekey:, timeout:) returns the number
// of a new session.
func (s *Sessions) connect(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg, "host", "port", "login", "password", "privatekey", "timeout"); err != nil {
		return values.Value{}, err
	}
	host, err := args.RequiredString(reg, "host")
	if err != nil {
		return values.Value{}, err
	}
	login, err := args.RequiredString(reg, "login")
	if err != nil {
		return values.Value{}, err
	}
	port := DEFAULT_PORT
	if p, ok, err := args.NamedInt(reg, "port", false); err != nil {
		return values.Value{}, err
	} else if ok {
		if p < 1 || p > 65535 {
			return values.Value{}, fnerr.FromBuiltin(fnerr.OutOfRange(1, 65535, p))
		}
		port = int(p)
	}
	timeout := s.defaultTimeout
	if t, ok, err := args.NamedUint(reg, "timeout", false); err != nil {
		return values.Value{}, err
	} else if ok {
		timeout = time.Duration(t) * time.Second
	}
	methods, err := authMethods(reg)
	if err != nil {
		return values.Value{}, err
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	config := &ssh.ClientConfig{
		User: login,
		Auth: methods,
		// A scanner has no business refusing the target's key.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return values.Value{}, fnerr.IO(err)
	}
	if timeout > 0 {
		conn.SetDeadline(time.Now().Add(timeout))
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		if strings.Contains(err.Error(), "unable to authenticate") {
			return values.Value{}, fnerr.FromBuiltin(fnerr.BuiltinWrapping(err, "ssh/auth", login, addr, err))
		}
		return values.Value{}, fnerr.IO(err)
	}
	conn.SetDeadline(time.Time{})
	id := s.add(&session{client: ssh.NewClient(c, chans, reqs), host: addr, login: login})
	s.log.WithFields(logrus.Fields{"session": id, "host": addr, "login": login}).Debug("ssh session opened")
	return values.Int(id), nil
}

func sessionArg(reg *register.Register) (int64, error) {
	if _, err := args.Positionals(reg, 1); err != nil {
		return 0, err
	}
	return args.PositionalInt(reg, 0)
}

// watch closes c if ctx is done before the returned stop func is called.
func watch(ctx context.Context, c io.Closer) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// ssh_request_exec(session, cmd:) runs cmd and gives back what it wrote to stdout. If
// it exits with a non-zero status that's an error, but the output still comes back
// with it.
func (s *Sessions) requestExec(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg, "cmd"); err != nil {
		return values.Value{}, err
	}
	id, err := sessionArg(reg)
	if err != nil {
		return values.Value{}, err
	}
	cmd, err := args.RequiredString(reg, "cmd")
	if err != nil {
		return values.Value{}, err
	}
	sess, err := s.get(id)
	if err != nil {
		return values.Value{}, err
	}
	channel, err := sess.client.NewSession()
	if err != nil {
		return values.Value{}, fnerr.IO(err)
	}
	defer channel.Close()
	stop := watch(ctx, channel)
	out, err := channel.Output(cmd)
	stop()
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return values.Value{}, fnerr.FromBuiltin(fnerr.BuiltinWrapping(err, "ssh/exit", cmd, exitErr.ExitStatus())).
				WithReturnValue(values.String(string(out)))
		}
		if ctx.Err() != nil {
			return values.Value{}, fnerr.IO(ctx.Err())
		}
		return values.Value{}, fnerr.IO(err)
	}
	return values.String(string(out)), nil
}

// ssh_get_file(session, path:) fetches a file over sftp.
func (s *Sessions) getFile(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg, "path"); err != nil {
		return values.Value{}, err
	}
	id, err := sessionArg(reg)
	if err != nil {
		return values.Value{}, err
	}
	path, err := args.RequiredString(reg, "path")
	if err != nil {
		return values.Value{}, err
	}
	sess, err := s.get(id)
	if err != nil {
		return values.Value{}, err
	}
	client, err := sftp.NewClient(sess.client)
	if err != nil {
		return values.Value{}, fnerr.IO(err)
	}
	defer client.Close()
	stop := watch(ctx, client)
	defer stop()
	f, err := client.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return values.Value{}, fnerr.FromBuiltin(fnerr.BuiltinWrapping(err, "ssh/file", path, err)).WithReturnValue(values.NULL_VALUE)
		}
		return values.Value{}, fnerr.IO(err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return values.Value{}, fnerr.IO(err)
	}
	return values.Data(b), nil
}

// ssh_disconnect(session) is quietly happy to disconnect a session that isn't there.
func (s *Sessions) disconnect(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg); err != nil {
		return values.Value{}, err
	}
	id, err := sessionArg(reg)
	if err != nil {
		return values.Value{}, err
	}
	sess, ok := s.remove(id)
	if !ok {
		return values.NULL_VALUE, nil
	}
	if err := sess.client.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return values.Value{}, fnerr.IO(err)
	}
	s.log.WithFields(logrus.Fields{"session": id, "host": sess.host}).Debug("ssh session closed")
	return values.NULL_VALUE, nil
}
