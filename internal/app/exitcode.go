package app

import (
	"errors"

	"github.com/blackwell-systems/pkghub/internal/install"
	"github.com/blackwell-systems/pkghub/internal/winget"
)

// Process exit codes.
const (
	ExitOK              = 0
	ExitGeneric         = 1
	ExitInvalidID       = 2
	ExitElevation       = 3
	ExitTimeout         = 4
	ExitProcessFailure  = 5
	ExitUnverified      = 6
	ExitInstallInFlight = 7
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	var exitErr *winget.ExitError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, install.ErrInvalidIdentifier):
		return ExitInvalidID
	case errors.Is(err, install.ErrElevationRequired):
		return ExitElevation
	case errors.Is(err, winget.ErrTimeout):
		return ExitTimeout
	case errors.Is(err, install.ErrVerificationInconclusive):
		return ExitUnverified
	case errors.Is(err, install.ErrInstallInProgress):
		return ExitInstallInFlight
	case errors.As(err, &exitErr), errors.Is(err, winget.ErrToolNotFound):
		return ExitProcessFailure
	default:
		return ExitGeneric
	}
}
