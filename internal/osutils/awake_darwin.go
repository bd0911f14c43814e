//go:build darwin

package osutils

import (
	"fmt"
	"os/exec"
)

// keepAwake runs caffeinate for the life of the recording.
func keepAwake() (func(), error) {
	cmd := exec.Command("caffeinate", "-dims")
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start caffeinate: %w", err)
	}
	return func() {
		cmd.Process.Kill()
		cmd.Wait()
	}, nil
}
