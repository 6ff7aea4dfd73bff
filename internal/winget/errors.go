package winget

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrTimeout matches any *TimeoutError.
	ErrTimeout = errors.New("winget command timed out")

	// ErrToolNotFound indicates the winget executable could not be located.
	ErrToolNotFound = errors.New("winget executable not found")
)

// TimeoutError is returned when a command exceeds its wall-clock budget.
// The child process has already been killed when this is returned.
type TimeoutError struct {
	Args    []string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("winget %s timed out after %s", strings.Join(e.Args, " "), e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// ExitError reports a non-zero exit from winget. ExitCode is the verbatim
// process exit status; Windows HRESULTs are kept unsigned.
type ExitError struct {
	Args     []string
	ExitCode int64
	Stdout   string
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("winget %s failed: exit code %d", strings.Join(e.Args, " "), e.ExitCode)
	}
	return fmt.Sprintf("winget %s failed: exit code %d (stderr: %s)", strings.Join(e.Args, " "), e.ExitCode, msg)
}

// ExitCodeOf extracts the exit code from err, reporting false when err does
// not carry one.
func ExitCodeOf(err error) (int64, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode, true
	}
	return 0, false
}
