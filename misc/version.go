// Package misc provides program identity for use in logs, reports and the
// command line surface.
package misc

import (
	"runtime/debug"
)

// Set at build time:
//
//	go build -ldflags "-X ccxpost/misc.appVersion=... -X ccxpost/misc.appHash=..."
var (
	appName    = "ccxpost"
	appVersion = ""
	appHash    = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	if len(appVersion) > 0 {
		return appVersion
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 {
		return bi.Main.Version
	}
	return "unknown"
}

func GetGitHash() string {
	if len(appHash) > 0 {
		return appHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
