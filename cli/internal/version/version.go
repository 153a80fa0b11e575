// Package version holds the cssmin version string. Release builds set it with
// -ldflags "-X cssmin/cli/internal/version.Version=v1.0.0"; dev builds may set
// Commit the same way, otherwise the VCS revision recorded by the Go toolchain is used.
package version

import "runtime/debug"

// Version is the cssmin version. Set at build time for releases.
var Version = "dev"

// Commit is the short git commit hash. Set at build time for dev builds.
var Commit = ""

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns "v1.2.3" for releases and "dev (abc1234)" for dev builds
// with a known commit.
func String() string {
	if Version != "dev" {
		return Version
	}
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	if commit == "" {
		return Version
	}
	return Version + " (" + commit + ")"
}

func vcsRevision() string {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 7 {
				return s.Value[:7]
			}
			return s.Value
		}
	}
	return ""
}
