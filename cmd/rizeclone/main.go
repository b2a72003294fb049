// Package main is the entry point for the rizeclone CLI application.
package main

import (
	"github.com/wexinc/rizeclone/cmd/rizeclone/cmd"
)

// Version information - will be set by build flags
var (
	version = ""
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Version = version
	cmd.Commit = commit
	cmd.Date = date
	cmd.Execute()
}
