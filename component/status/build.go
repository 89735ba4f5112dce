package status

import (
	"fmt"
	"runtime"
	"strings"
)

// Set at build time through -ldflags "-X".
var (
	GitCommit  = "0"
	GitVersion string
	GitBranch  = "development"
)

// Version returns the release tag, or the branch for untagged builds.
func Version() string {
	if GitVersion != "" && GitVersion != "undefined" {
		return GitVersion
	}
	return GitBranch
}

func OSArch() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

// BuildInfo describes the running binary and the HDSI server it queries.
func BuildInfo(hdsiBaseURL string) string {
	lines := []string{
		"Git version: " + Version(),
		"Git commit: " + GitCommit,
		"OS/Arch: " + OSArch(),
	}
	if hdsiBaseURL != "" {
		lines = append(lines, "HDSI server: "+hdsiBaseURL)
	}
	return strings.Join(lines, "\n") + "\n"
}
