//go:build !darwin && !windows

package osutils

// keepAwake is a no-op where no sleep-inhibition call is wired up.
func keepAwake() (func(), error) {
	return func() {}, nil
}
