//go:build !unix && !windows

package command_gateway

import "os/exec"

func killProcessTreeOnCancel(cmd *exec.Cmd) {}
