// Package python hosts the terminal's Python module in a child interpreter
// and drives it over a line-delimited JSON protocol on stdin/stdout.
package python

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapio"

	"github.com/rustyeddy/mt5bridge/foreign"
)

//go:embed bridge.py
var bridgeScript string

// DefaultModule is the vendor package name.
const DefaultModule = "MetaTrader5"

const closeGrace = 5 * time.Second

// Options configure the interpreter.
type Options struct {
	// Python is the interpreter executable. Defaults to "python" on Windows and
	// "python3" elsewhere.
	Python string
	// SitePackages is appended to sys.path before the import. See
	// ResolveSitePackages for the fallbacks used when it is empty.
	SitePackages string
	Module       string
	Logger       *zap.Logger
}

// ResolveSitePackages picks the site-packages root: the explicit value, else
// MT5_SITE_PACKAGES, else the lib\site-packages\ folder of POETRY_ENVIRONMENT.
func ResolveSitePackages(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv("MT5_SITE_PACKAGES"); v != "" {
		return v
	}
	if v := os.Getenv("POETRY_ENVIRONMENT"); v != "" {
		return v + `\lib\site-packages\`
	}
	return ""
}

type process interface {
	Kill() error
	Wait() error
}

type cmdProcess struct{ cmd *exec.Cmd }

func (p cmdProcess) Kill() error { return p.cmd.Process.Kill() }
func (p cmdProcess) Wait() error { return p.cmd.Wait() }

// Runtime is a foreign.Runtime backed by a Python child process.
// Calls are serialized; one request is in flight at a time.
type Runtime struct {
	mu     sync.Mutex
	stdin  io.WriteCloser
	enc    *json.Encoder
	dec    *json.Decoder
	proc   process
	closed bool
	nextID uint64
	log    *zap.Logger

	Module  string
	Version string
}

type request struct {
	ID     uint64         `json:"id"`
	Fn     string         `json:"fn"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs,omitempty"`
}

type response struct {
	ID    uint64             `json:"id"`
	OK    bool               `json:"ok"`
	Value any                `json:"value"`
	Error *foreign.CallError `json:"error"`
}

type ready struct {
	Ready   bool   `json:"ready"`
	Module  string `json:"module"`
	Version string `json:"version"`
	Error   string `json:"error"`
}

// Start launches the interpreter, imports the module and waits until the
// bridge reports ready or ctx is done.
func Start(ctx context.Context, opts Options) (*Runtime, error) {
	if opts.Python == "" {
		opts.Python = "python3"
		if runtime.GOOS == "windows" {
			opts.Python = "python"
		}
	}
	if opts.Module == "" {
		opts.Module = DefaultModule
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	site := ResolveSitePackages(opts.SitePackages)

	cmd := exec.Command(opts.Python, "-u", "-c", bridgeScript, site, opts.Module)
	cmd.Stderr = &zapio.Writer{Log: log.Named("python"), Level: zap.WarnLevel}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("python stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("python stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", opts.Python, err)
	}

	r := newRuntime(stdin, stdout, cmdProcess{cmd: cmd}, log)
	if err := r.handshake(ctx); err != nil {
		r.abort()
		return nil, err
	}
	log.Info("python_runtime_started",
		zap.String("python", opts.Python),
		zap.String("module", r.Module),
		zap.String("version", r.Version),
		zap.String("site_packages", site),
	)
	return r, nil
}

func newRuntime(stdin io.WriteCloser, stdout io.Reader, proc process, log *zap.Logger) *Runtime {
	dec := json.NewDecoder(stdout)
	dec.UseNumber()
	return &Runtime{
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		dec:   dec,
		proc:  proc,
		log:   log,
	}
}

func (r *Runtime) handshake(ctx context.Context) error {
	done := make(chan error, 1)
	var msg ready
	go func() { done <- r.dec.Decode(&msg) }()

	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting for python bridge: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("python bridge handshake: %w", err)
		}
	}
	if !msg.Ready {
		return fmt.Errorf("python bridge: %s", msg.Error)
	}
	r.Module = msg.Module
	r.Version = msg.Version
	return nil
}

// Call implements foreign.Runtime. If ctx ends while the call is in flight the
// interpreter is killed, since its output stream can no longer be trusted.
func (r *Runtime) Call(ctx context.Context, fn string, args []any, kwargs map[string]any) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, foreign.ErrClosed
	}
	if args == nil {
		args = []any{}
	}
	r.nextID++
	req := request{ID: r.nextID, Fn: fn, Args: args, Kwargs: kwargs}

	type result struct {
		resp response
		err  error
	}
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		if err := r.enc.Encode(req); err != nil {
			done <- result{err: err}
			return
		}
		var resp response
		err := r.dec.Decode(&resp)
		done <- result{resp: resp, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		r.log.Warn("python_call_cancelled", zap.String("fn", fn), zap.Error(ctx.Err()))
		r.abort()
		return nil, ctx.Err()
	case res = <-done:
	}

	r.log.Debug("python_call",
		zap.String("fn", fn),
		zap.Uint64("id", req.ID),
		zap.Duration("took", time.Since(start)),
		zap.Bool("ok", res.err == nil && res.resp.OK),
	)

	if res.err != nil {
		r.abort()
		if errors.Is(res.err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", fn, foreign.ErrClosed)
		}
		return nil, fmt.Errorf("%s: python bridge: %w", fn, res.err)
	}
	if res.resp.ID != req.ID {
		r.abort()
		return nil, fmt.Errorf("%s: python bridge answered id %d, want %d", fn, res.resp.ID, req.ID)
	}
	if !res.resp.OK {
		if res.resp.Error == nil {
			return nil, &foreign.CallError{Fn: fn, Type: "Exception", Message: "unknown error"}
		}
		return nil, res.resp.Error
	}
	v, err := foreign.Normalize(res.resp.Value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return v, nil
}

// abort tears the process down without waiting for pending output.
// Callers hold r.mu or own r exclusively.
func (r *Runtime) abort() {
	if r.closed {
		return
	}
	r.closed = true
	_ = r.stdin.Close()
	_ = r.proc.Kill()
	go func() { _ = r.proc.Wait() }()
}

// Close ends the interpreter by closing its input, killing it if it has not
// exited after a grace period.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	_ = r.stdin.Close()

	waited := make(chan error, 1)
	go func() { waited <- r.proc.Wait() }()

	select {
	case err := <-waited:
		r.log.Info("python_runtime_stopped")
		return err
	case <-time.After(closeGrace):
		r.log.Warn("python_runtime_kill", zap.Duration("grace", closeGrace))
		_ = r.proc.Kill()
		<-waited
		return nil
	}
}

var _ foreign.Runtime = (*Runtime)(nil)
