package version

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/listbuilder/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version and embedded in bundle headers.
func String() string {
	if GitCommit == "unknown" || GitCommit == "" {
		return Version
	}
	short := GitCommit
	if len(short) > 8 {
		short = short[:8]
	}
	return Version + " (" + short + ")"
}
