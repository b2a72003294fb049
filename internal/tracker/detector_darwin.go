//go:build darwin

package tracker

// NewDetector returns the focused-window detector for this platform.
func NewDetector() Detector {
	return NewAppleScriptDetector()
}
