//go:build !windows

package winget

import "os/exec"

func hideWindow(*exec.Cmd) {}
