package version

import "runtime/debug"

// Version is set at build time with something like:
// go build -ldflags "-X github.com/zazu-22/scoreplay/version.Version=$(git describe --dirty)"
var Version string

// String returns the explicit Version when one was linked in, and otherwise
// the short VCS revision recorded in the build info, with a -dirty suffix
// for modified trees.
func String() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	revision, modified := "", false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) >= 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		return revision + "-dirty"
	}
	return revision
}
