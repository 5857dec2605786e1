// Package app provides the core application structure for the besselj CLI.
// It handles application lifecycle, command dispatching, and version management.
package app

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Build metadata, injected with -ldflags:
//
//	go build -ldflags="-X github.com/agbru/besselj/internal/app.Version=v0.3.0 -X github.com/agbru/besselj/internal/app.Commit=$(git rev-parse --short HEAD)" ./cmd/besselj
var (
	// Version is the semantic version of the binary.
	Version = "dev"
	// Commit is the short Git commit hash.
	Commit = "unknown"
	// BuildDate is the RFC 3339 build timestamp.
	BuildDate = "unknown"
)

// hasFlag reports whether args contain any of names, with one or two
// leading dashes.
func hasFlag(args []string, names ...string) bool {
	for _, arg := range args {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
		if trimmed == arg {
			continue
		}
		for _, name := range names {
			if trimmed == name {
				return true
			}
		}
	}
	return false
}

// HasVersionFlag reports whether a version flag (-version, --version or -V)
// appears anywhere in args, so that "besselj --server --version" prints the
// version instead of starting the server.
func HasVersionFlag(args []string) bool {
	return hasFlag(args, "version", "V")
}

// VersionData holds the build and runtime version details.
type VersionData struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns the current version information.
func GetVersionInfo() VersionData {
	return VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion writes the version information to out, as JSON when args
// also carry the -json flag.
//
// Parameters:
//   - out: The writer to output version information to.
//   - args: The command-line arguments (typically os.Args[1:]).
func PrintVersion(out io.Writer, args []string) {
	info := GetVersionInfo()
	if hasFlag(args, "json") {
		_ = writeJSON(out, info)
		return
	}
	fmt.Fprintf(out, "besselj %s\n", info.Version)
	fmt.Fprintf(out, "  Commit:     %s\n", info.Commit)
	fmt.Fprintf(out, "  Built:      %s\n", info.BuildDate)
	fmt.Fprintf(out, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", info.OS, info.Arch)
}

