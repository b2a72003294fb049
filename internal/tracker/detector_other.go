//go:build !linux && !darwin && !windows

package tracker

// NewDetector returns the focused-window detector for this platform.
func NewDetector() Detector {
	return NoneDetector{}
}
