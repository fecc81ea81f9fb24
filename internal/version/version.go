// Package version holds build information for the modgraph binary.
package version

import "runtime/debug"

// Overridden at build time:
// go build -ldflags "-X modgraph/internal/version.Version=1.0.0 -X modgraph/internal/version.Commit=abc123"
var (
	Version   = "0.3.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func init() {
	if Commit != "unknown" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	Commit, BuildDate = fromBuildSettings(info.Settings, Commit, BuildDate)
}

// fromBuildSettings fills commit and date from the VCS stamps the go
// command embeds, keeping the fallbacks when a stamp is absent.
func fromBuildSettings(settings []debug.BuildSetting, commit, date string) (string, string) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if s.Value != "" {
				commit = s.Value
			}
		case "vcs.time":
			if s.Value != "" {
				date = s.Value
			}
		}
	}
	return commit, date
}

// Info returns a formatted version string
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information
func Full() string {
	return "modgraph version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
