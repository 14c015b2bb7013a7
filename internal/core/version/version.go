// Package version reports build metadata stamped with -ldflags
//
//	go build -ldflags "-X churnserve/internal/core/version.version=v1.2.0 \
//	  -X churnserve/internal/core/version.commit=abcd -X churnserve/internal/core/version.date=2026-10-01"
package version

import (
	"runtime"
	"runtime/debug"
)

// BuildInfo holds version information about a binary
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// readBuildInfo is swapped in tests
var readBuildInfo = debug.ReadBuildInfo

// Info returns build information for service
// an unstamped commit falls back to the vcs revision recorded by the toolchain
func Info(service string) BuildInfo {
	bi := BuildInfo{
		Service:   service,
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}
	if bi.Commit != "none" {
		return bi
	}
	if info, ok := readBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				bi.Commit = s.Value
			case "vcs.time":
				if bi.Date == "unknown" {
					bi.Date = s.Value
				}
			}
		}
	}
	return bi
}

// String renders "service version (commit)"
func (b BuildInfo) String() string {
	c := b.Commit
	if len(c) > 12 {
		c = c[:12]
	}
	return b.Service + " " + b.Version + " (" + c + ")"
}
