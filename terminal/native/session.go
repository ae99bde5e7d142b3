// Package native drives the terminal through its scripting module, running in
// a foreign runtime owned by the session.
package native

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/mt5bridge/foreign"
	"github.com/rustyeddy/mt5bridge/mql"
	"github.com/rustyeddy/mt5bridge/terminal"
)

var (
	_ terminal.Terminal      = (*Session)(nil)
	_ terminal.Authenticator = (*Session)(nil)
)

// Session is an initialized connection to a terminal. It is not safe for
// concurrent use.
type Session struct {
	rt  foreign.Runtime
	log *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

func newSession(rt foreign.Runtime, opts []Option) *Session {
	s := &Session{rt: rt, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize connects to the terminal installed at path, or to the one the
// module finds by itself when path is empty.
func Initialize(ctx context.Context, rt foreign.Runtime, path string, opts ...Option) (*Session, error) {
	s := newSession(rt, opts)
	var args []any
	if path != "" {
		args = []any{path}
	}
	if err := s.initialize(ctx, args, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// InitializeWithCredentials connects and logs in to the given account. A zero
// timeout and a nil portable leave the terminal defaults in place.
func InitializeWithCredentials(ctx context.Context, rt foreign.Runtime, path string,
	creds mql.AccountCredentials, timeout time.Duration, portable *bool, opts ...Option) (*Session, error) {
	s := newSession(rt, opts)
	var args []any
	if path != "" {
		args = []any{path}
	}
	kw := credentialArgs(creds, timeout)
	if portable != nil {
		kw["portable"] = *portable
	}
	if err := s.initialize(ctx, args, kw); err != nil {
		return nil, err
	}
	return s, nil
}

func credentialArgs(creds mql.AccountCredentials, timeout time.Duration) map[string]any {
	kw := map[string]any{
		"login":    creds.Login,
		"password": creds.Password,
		"server":   creds.Server,
	}
	if timeout > 0 {
		kw["timeout"] = timeout.Milliseconds()
	}
	return kw
}

func (s *Session) initialize(ctx context.Context, args []any, kw map[string]any) error {
	ok, err := call[bool](ctx, s, "initialize", args, kw)
	if err != nil {
		return err
	}
	if !ok {
		return &mql.Error{Code: mql.RuntimeAuthFailed, Message: mql.InitializeFailedMessage}
	}
	s.log.Info("terminal_initialized", zap.Bool("credentials", kw != nil))
	return nil
}

// Login switches the session to another account.
func (s *Session) Login(ctx context.Context, creds mql.AccountCredentials, timeout time.Duration) error {
	kw := credentialArgs(creds, timeout)
	delete(kw, "login")
	ok, err := call[bool](ctx, s, "login", []any{creds.Login}, kw)
	if err != nil {
		return err
	}
	if !ok {
		return &mql.Error{Code: mql.RuntimeAuthFailed, Message: mql.InitializeFailedMessage}
	}
	s.log.Info("terminal_login", zap.Int64("login", creds.Login), zap.String("server", creds.Server))
	return nil
}

// Shutdown releases the terminal connection. Failures are logged, never
// returned.
func (s *Session) Shutdown(ctx context.Context) error {
	if _, err := s.rt.Call(ctx, "shutdown", nil, nil); err != nil {
		s.log.Warn("terminal_shutdown_failed", zap.Error(err))
	}
	return nil
}

// LastError reads the error channel as it stands.
func (s *Session) LastError(ctx context.Context) (mql.RuntimeError, string, error) {
	v, err := s.rt.Call(ctx, "last_error", nil, nil)
	if err != nil {
		return 0, "", fmt.Errorf("last_error: %w", err)
	}
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return 0, "", fmt.Errorf("last_error: %w: got %T", mql.ErrDecode, v)
	}
	code, ok := pair[0].(int64)
	if !ok {
		return 0, "", fmt.Errorf("last_error: %w: code is %T", mql.ErrDecode, pair[0])
	}
	msg, ok := pair[1].(string)
	if !ok {
		return 0, "", fmt.Errorf("last_error: %w: message is %T", mql.ErrDecode, pair[1])
	}
	return mql.RuntimeError(code), msg, nil
}

// exec invokes fn and then reads the error channel. A negative code wins over
// whatever the call returned or raised.
func (s *Session) exec(ctx context.Context, fn string, args []any, kw map[string]any) (any, error) {
	start := time.Now()
	v, callErr := s.rt.Call(ctx, fn, args, kw)

	var raised *foreign.CallError
	if callErr != nil && !errors.As(callErr, &raised) {
		return nil, fmt.Errorf("%s: %w", fn, callErr)
	}

	code, msg, err := s.LastError(ctx)
	if err != nil {
		return nil, err
	}
	if code.Failed() {
		s.log.Debug("terminal_call_failed",
			zap.String("fn", fn),
			zap.Int("code", int(code)),
			zap.String("message", msg),
		)
		return nil, &mql.Error{Code: code, Message: msg}
	}
	if callErr != nil {
		return nil, fmt.Errorf("%s: %w", fn, callErr)
	}
	s.log.Debug("terminal_call", zap.String("fn", fn), zap.Duration("took", time.Since(start)))
	return v, nil
}

func call[T any](ctx context.Context, s *Session, fn string, args []any, kw map[string]any) (T, error) {
	var out T
	v, err := s.exec(ctx, fn, args, kw)
	if err != nil {
		return out, err
	}
	if err := foreign.Decode(v, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", fn, err)
	}
	return out, nil
}

func rows[T any](ctx context.Context, s *Session, fn string, args []any, kw map[string]any) ([]T, error) {
	v, err := s.exec(ctx, fn, args, kw)
	if err != nil {
		return nil, err
	}
	out, err := foreign.DecodeRows[T](v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return out, nil
}
