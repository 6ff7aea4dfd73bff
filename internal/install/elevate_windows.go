//go:build windows

package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// SystemElevator checks the process token and relaunches through the
// "runas" shell verb.
type SystemElevator struct{}

// NewSystemElevator returns the Elevator for the current platform.
func NewSystemElevator() Elevator {
	return SystemElevator{}
}

func (SystemElevator) IsElevated(ctx context.Context) (bool, error) {
	if windows.GetCurrentProcessToken().IsElevated() {
		return true, nil
	}
	// Accounts with UAC disabled report an unelevated token but can still
	// open the session list, which requires admin.
	cmd := exec.CommandContext(ctx, "net", "session")
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("net session probe failed: %w", err)
	}
	return true, nil
}

func (SystemElevator) Relaunch(ctx context.Context) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	args := make([]string, 0, len(os.Args)-1)
	for _, a := range os.Args[1:] {
		args = append(args, windows.EscapeArg(a))
	}

	verb, _ := windows.UTF16PtrFromString("runas")
	file, err := windows.UTF16PtrFromString(exe)
	if err != nil {
		return err
	}
	params, err := windows.UTF16PtrFromString(strings.Join(args, " "))
	if err != nil {
		return err
	}
	dir, err := windows.UTF16PtrFromString(cwd)
	if err != nil {
		return err
	}

	if err := windows.ShellExecute(0, verb, file, params, dir, windows.SW_NORMAL); err != nil {
		return fmt.Errorf("elevated relaunch failed: %w", err)
	}
	return nil
}
