// Package testutil provides helpers shared by the tests of the CLI-facing
// packages.
package testutil

import (
	"regexp"
	"strings"
)

// ansiRegex matches CSI escape sequences (ESC [ ... letter), which is what
// the color themes emit.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes ANSI escape codes from s so that assertions on
// terminal output do not depend on the active theme.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// Lines strips ANSI codes from s and returns its non-blank lines with
// surrounding whitespace removed.
func Lines(s string) []string {
	var lines []string
	for _, line := range strings.Split(StripAnsiCodes(s), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
