// Package version describes the running rizeclone build.
package version

import (
	"fmt"
	"runtime"
)

// Default is the release version used when no build flag overrides it.
const Default = "0.1.0"

// Info contains version information about rizeclone.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	GoVer   string `json:"go_version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// NewInfo creates a new Info from the build variables. An empty version
// falls back to Default.
func NewInfo(version, commit, date string) *Info {
	if version == "" {
		version = Default
	}
	return &Info{
		Version: version,
		Commit:  commit,
		Date:    date,
		GoVer:   runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// String returns a formatted version string.
func (i *Info) String() string {
	return fmt.Sprintf("rizeclone %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}

// FullString returns a detailed version string, including the foreground
// window detector used on this platform.
func (i *Info) FullString(detector string) string {
	return fmt.Sprintf(`rizeclone %s
  Commit:   %s
  Built:    %s
  Go:       %s
  OS/Arch:  %s/%s
  Detector: %s`, i.Version, i.Commit, i.Date, i.GoVer, i.OS, i.Arch, detector)
}
