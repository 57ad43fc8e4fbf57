package version

import "runtime/debug"

// Version contains the application version information.
// Set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/bookstage/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version. When no ldflags were
// given, the module version recorded by `go install` is used.
func String() string {
	v := Version
	if v == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	s := "bookstage " + v
	if GitCommit != "unknown" {
		s += " (" + GitCommit
		if BuildTime != "unknown" {
			s += ", built " + BuildTime
		}
		s += ")"
	}
	return s
}
