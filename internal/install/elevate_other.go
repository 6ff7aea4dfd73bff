//go:build !windows

package install

// NewSystemElevator returns the Elevator for the current platform. Only
// Windows has a privilege gate for winget; elsewhere the process is treated
// as elevated.
func NewSystemElevator() Elevator {
	return AlwaysElevated{}
}
