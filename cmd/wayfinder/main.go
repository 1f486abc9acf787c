// Command wayfinder reports and records progress through the business
// onboarding journey.
package main

import (
	"os"
	"runtime/debug"

	"github.com/alexander-akhmetov/wayfinder/internal/cmd"
)

// Version information set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			commit, date = vcsStamp(info.Settings)
		}
	}
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// vcsStamp extracts a short commit (suffixed -dirty for modified trees)
// and the commit time from build settings.
func vcsStamp(settings []debug.BuildSetting) (rev, when string) {
	rev, when = "unknown", "unknown"
	dirty := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) >= 7 {
				rev = s.Value[:7]
			}
		case "vcs.time":
			if s.Value != "" {
				when = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && rev != "unknown" {
		rev += "-dirty"
	}
	return rev, when
}
