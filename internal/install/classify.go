package install

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blackwell-systems/pkghub/internal/winget"
)

// FailureKind groups install failures by cause.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureElevation
	FailureNotFound
	FailureAmbiguous
	FailureAdmin
	FailureTimeout
	FailureToolMissing
)

func (k FailureKind) String() string {
	switch k {
	case FailureElevation:
		return "elevation"
	case FailureNotFound:
		return "not-found"
	case FailureAmbiguous:
		return "ambiguous"
	case FailureAdmin:
		return "admin"
	case FailureTimeout:
		return "timeout"
	case FailureToolMissing:
		return "tool-missing"
	default:
		return "unknown"
	}
}

// NeedsAdmin reports whether the failure is fixed by running elevated.
func (k FailureKind) NeedsAdmin() bool {
	return k == FailureElevation || k == FailureAdmin
}

var exitCodeKinds = map[int64]FailureKind{
	winget.CodeElevationDenied:       FailureElevation,
	winget.CodeElevationRequired:     FailureElevation,
	winget.CodeNoPackageFound:        FailureNotFound,
	winget.CodeMultiplePackagesFound: FailureAmbiguous,
	winget.CodeCommandRequiresAdmin:  FailureAdmin,
}

// Checked in order; the first match wins.
var textKinds = []struct {
	needle string
	kind   FailureKind
}{
	{"requires elevation", FailureElevation},
	{"需要提升权限", FailureElevation},
	{"No installed package found matching input criteria", FailureNotFound},
	{"No package found matching input criteria", FailureNotFound},
	{"Multiple packages found matching input criteria", FailureAmbiguous},
	{"requires admin", FailureAdmin},
}

// Classify maps an install error to a kind and a user-facing message. Exit
// codes are consulted first; output text is a fallback for codes winget does
// not document.
func Classify(err error) (FailureKind, string) {
	if err == nil {
		return FailureUnknown, ""
	}

	var te *winget.TimeoutError
	if errors.As(err, &te) {
		return FailureTimeout, fmt.Sprintf("install timed out after %s", te.Timeout)
	}
	if errors.Is(err, winget.ErrToolNotFound) {
		return FailureToolMissing, "winget is not installed or not on PATH"
	}

	var exitErr *winget.ExitError
	if !errors.As(err, &exitErr) {
		return FailureUnknown, err.Error()
	}

	kind, ok := exitCodeKinds[exitErr.ExitCode]
	if !ok {
		text := exitErr.Stderr + "\n" + exitErr.Stdout
		for _, t := range textKinds {
			if strings.Contains(text, t.needle) {
				kind, ok = t.kind, true
				break
			}
		}
	}
	if !ok {
		return FailureUnknown, fmt.Sprintf("install failed, exit code %d", exitErr.ExitCode)
	}
	return kind, kindMessage(kind)
}

func kindMessage(k FailureKind) string {
	switch k {
	case FailureElevation:
		return "administrator privileges required; run pkghub as administrator"
	case FailureNotFound:
		return "no package found matching that id"
	case FailureAmbiguous:
		return "multiple packages match that id; use the exact id"
	case FailureAdmin:
		return "this package requires administrator rights to install"
	default:
		return "install failed"
	}
}
