//go:build linux

package tracker

// NewDetector returns the focused-window detector for this platform.
func NewDetector() Detector {
	return NewX11Detector()
}
