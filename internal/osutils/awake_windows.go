//go:build windows

package osutils

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	kernel32                    = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadExecutionState = kernel32.NewProc("SetThreadExecutionState")
)

const (
	esContinuous      = 0x80000000
	esSystemRequired  = 0x00000001
	esDisplayRequired = 0x00000002
)

func keepAwake() (func(), error) {
	ret, _, err := procSetThreadExecutionState.Call(uintptr(esContinuous | esSystemRequired | esDisplayRequired))
	if ret == 0 {
		return nil, fmt.Errorf("SetThreadExecutionState failed: %v", err)
	}
	return func() {
		procSetThreadExecutionState.Call(uintptr(esContinuous))
	}, nil
}
