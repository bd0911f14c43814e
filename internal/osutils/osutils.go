// Package osutils provides small platform helpers used around a recording.
package osutils

// KeepAwake blocks display and system sleep until the returned release
// function is called. Implementations must not synthesize input; anything
// injected would show up in the captured event stream.
func KeepAwake() (release func(), err error) {
	return keepAwake()
}
