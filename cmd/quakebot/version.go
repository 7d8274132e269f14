package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Overridden with -ldflags "-X main.version=...". Empty values fall back to
// the VCS stamp the go tool embeds in the binary.
var (
	version   = ""
	buildDate = ""
	gitCommit = ""
)

const unknown = "unknown"

type BuildInfo struct {
	Version, BuildDate, GitCommit, GoVersion, Platform string
}

func GetBuildInfo() BuildInfo {
	bi, _ := debug.ReadBuildInfo()
	return buildInfoFrom(bi, version, buildDate, gitCommit)
}

func buildInfoFrom(bi *debug.BuildInfo, ver, date, commit string) BuildInfo {
	modified, fromVCS := false, false
	if bi != nil {
		if ver == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			ver = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if commit == "" {
					commit, fromVCS = shortRevision(s.Value), true
				}
			case "vcs.time":
				if date == "" {
					date = s.Value
				}
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
	}

	if ver == "" {
		ver = "dev"
	}
	if commit == "" {
		commit = unknown
	} else if fromVCS && modified {
		commit += "-dirty"
	}
	if date == "" {
		date = unknown
	}
	return BuildInfo{
		Version:   ver,
		BuildDate: date,
		GitCommit: commit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
