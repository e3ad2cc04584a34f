//go:build !darwin || !cgo

package permissions

// HasScreenRecording always reports true where no privacy gate exists.
func HasScreenRecording() bool { return true }

// RequestScreenRecording is a no-op outside macOS.
func RequestScreenRecording() bool { return true }
