// Package autostart registers the application to start at login.
package autostart

// Enable registers the current executable to start at login.
func Enable() error {
	return enable()
}

// Disable removes the login registration.
func Disable() error {
	return disable()
}

// IsEnabled checks whether the login registration is present.
func IsEnabled() bool {
	return isEnabled()
}
