package winget

import (
	"context"
	"errors"
	"io"
	"log"
	"os/exec"
	"time"
)

const (
	// DefaultTimeout bounds commands that do not set RunOptions.Timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxOutputBytes caps each of stdout and stderr.
	DefaultMaxOutputBytes = 10 * 1024 * 1024

	// waitDelay is how long Run waits for the output pipes to drain after the
	// child has been killed.
	waitDelay = 2 * time.Second
)

// RunOptions configures a single winget invocation.
type RunOptions struct {
	Timeout        time.Duration
	MaxOutputBytes int
	// Source scopes the command to a package source where winget accepts it.
	Source string
}

func (o RunOptions) withDefaults() RunOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxOutputBytes <= 0 {
		o.MaxOutputBytes = DefaultMaxOutputBytes
	}
	return o
}

// Result holds the raw output of a successful invocation.
type Result struct {
	Args      []string
	Stdout    []byte
	Stderr    []byte
	Truncated bool
	Duration  time.Duration
}

// Output returns stdout decoded to text.
func (r *Result) Output() string {
	if r == nil {
		return ""
	}
	return Decode(r.Stdout)
}

// Runner runs winget commands. *Executor is the production implementation;
// tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, args []string, opts RunOptions) (*Result, error)
}

// Executor runs the winget executable as a child process.
type Executor struct {
	path   string
	logger *log.Logger
}

// NewExecutor creates an Executor for the winget binary at path. An empty
// path resolves "winget" on PATH.
func NewExecutor(path string, logger *log.Logger) *Executor {
	if path == "" {
		path = "winget"
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Executor{path: path, logger: logger}
}

// Path returns the executable the Executor invokes.
func (e *Executor) Path() string {
	return e.path
}

// Run executes winget with args. Output is captured as bytes and never
// decoded here. A command that outlives opts.Timeout is killed and reported
// as *TimeoutError; a non-zero exit is reported as *ExitError.
func (e *Executor) Run(ctx context.Context, args []string, opts RunOptions) (*Result, error) {
	opts = opts.withDefaults()
	args = ScopeArgs(args, opts.Source)

	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	stdout := &cappedBuffer{limit: opts.MaxOutputBytes}
	stderr := &cappedBuffer{limit: opts.MaxOutputBytes}

	cmd := exec.CommandContext(runCtx, e.path, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	hideWindow(cmd)

	e.logger.Printf("exec: %s %v", e.path, args)
	start := time.Now()
	err := cmd.Run()

	res := &Result{
		Args:      args,
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.truncated || stderr.truncated,
		Duration:  time.Since(start),
	}
	if err == nil {
		return res, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return nil, ErrToolNotFound
	}
	// Only our own deadline is a timeout; a cancelled parent is passed through.
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		e.logger.Printf("exec: %v timed out after %s", args, opts.Timeout)
		return nil, &TimeoutError{Args: args, Timeout: opts.Timeout}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := normalizeExitCode(exitErr.ExitCode())
		e.logger.Printf("exec: %v exited with %d", args, code)
		return nil, &ExitError{
			Args:     args,
			ExitCode: code,
			Stdout:   Decode(res.Stdout),
			Stderr:   Decode(res.Stderr),
		}
	}
	return nil, err
}

// normalizeExitCode keeps Windows HRESULTs unsigned on platforms where int is
// 32 bits and the status comes back negative.
func normalizeExitCode(code int) int64 {
	if code < -1 {
		return int64(uint32(code))
	}
	return int64(code)
}

// ScopeArgs adds a --source flag to search commands when a non-default
// source is requested. Other commands are returned unchanged.
func ScopeArgs(args []string, source string) []string {
	if source == "" || source == DefaultSource || len(args) == 0 || args[0] != "search" {
		return args
	}
	for _, a := range args {
		if a == "--source" || a == "-s" {
			return args
		}
	}
	scoped := make([]string, 0, len(args)+2)
	scoped = append(scoped, args[0], "--source", source)
	return append(scoped, args[1:]...)
}

// cappedBuffer keeps at most limit bytes and silently discards the rest so
// a chatty child can never block on a full pipe or exhaust memory.
type cappedBuffer struct {
	buf       []byte
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.limit - len(b.buf)
	if room <= 0 {
		if len(p) > 0 {
			b.truncated = true
		}
		return len(p), nil
	}
	if len(p) > room {
		b.buf = append(b.buf, p[:room]...)
		b.truncated = true
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	return b.buf
}
