package install

import "errors"

var (
	// ErrInvalidIdentifier rejects empty or placeholder package ids.
	ErrInvalidIdentifier = errors.New("invalid package identifier")

	// ErrInstallInProgress is returned when the same id is already being
	// installed by another request.
	ErrInstallInProgress = errors.New("install already in progress")

	// ErrElevationRequired means the install needs administrator rights.
	ErrElevationRequired = errors.New("administrator privileges required")

	// ErrVerificationInconclusive means winget reported success but the
	// package could not be found afterwards.
	ErrVerificationInconclusive = errors.New("install succeeded but could not be verified")

	// ErrRelaunchUnsupported is returned by elevators that cannot restart
	// the process with higher privileges.
	ErrRelaunchUnsupported = errors.New("elevated relaunch not supported on this platform")
)
