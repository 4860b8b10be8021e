package termcolor

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether the given file descriptor refers to a terminal.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd)) //nolint:gosec // G115: fd comes from os.File.Fd(); safe on all supported platforms
}

// ShouldColorize reports whether color output should be enabled for f.
// It returns true when f is a terminal and the NO_COLOR environment variable
// is not set. See https://no-color.org/.
func ShouldColorize(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsTerminal(f.Fd())
}

// plumbingCommands are low-level commands whose output is meant to be piped
// into other programs or diffed byte-for-byte (cat-file, current_branch,
// latest_commit). ColorAuto never colorizes them, matching how real git
// keeps plumbing output free of escape codes regardless of terminal.
var plumbingCommands = map[string]bool{
	"cat-file":       true,
	"current_branch": true,
	"latest_commit":  true,
}

// ShouldColorizeCommand reports whether color should be enabled for the
// named command under ColorAuto, given the base file-level decision from
// ShouldColorize. Plumbing commands are excluded regardless of terminal.
func ShouldColorizeCommand(name string, fileColorize bool) bool {
	if plumbingCommands[name] {
		return false
	}
	return fileColorize
}
