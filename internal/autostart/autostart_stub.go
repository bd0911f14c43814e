//go:build !windows && !darwin

package autostart

import (
	"fmt"
	"runtime"
)

func enable() error {
	return fmt.Errorf("autostart not supported on %s", runtime.GOOS)
}

func disable() error {
	return fmt.Errorf("autostart not supported on %s", runtime.GOOS)
}

func isEnabled() bool {
	return false
}
