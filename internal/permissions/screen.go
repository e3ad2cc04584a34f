//go:build darwin && cgo

// Package permissions checks the macOS privacy grants screen capture needs.
package permissions

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <CoreGraphics/CoreGraphics.h>

// Both calls exist since macOS 10.15.
int preflightScreenCapture() {
    return CGPreflightScreenCaptureAccess();
}

int requestScreenCapture() {
    return CGRequestScreenCaptureAccess();
}
*/
import "C"

// HasScreenRecording reports whether the process may read display contents.
// Without the grant CoreGraphics returns only the desktop wallpaper.
func HasScreenRecording() bool {
	return C.preflightScreenCapture() != 0
}

// RequestScreenRecording asks macOS to show the Screen Recording prompt.
// It returns true when access is already granted; otherwise the user has
// to enable it in System Settings and restart airshot.
func RequestScreenRecording() bool {
	return C.requestScreenCapture() != 0
}
