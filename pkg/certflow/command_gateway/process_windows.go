//go:build windows

package command_gateway

import (
	"os/exec"
	"strconv"
)

// killProcessTreeOnCancel kills the command and all of its descendants with taskkill, so that
// certreq and certutil do not outlive the PowerShell host.
func killProcessTreeOnCancel(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
		if err := kill.Run(); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}
