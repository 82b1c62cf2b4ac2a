// Package version reports the xlat build and the translator API it serves.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/teranos/xlat/version.Version=...".
var (
	Version    = "dev"
	CommitHash = ""
	BuildTime  = "unknown"
)

// APIVersion is the translator API version. Static translator modules
// declare a semver constraint against it.
const APIVersion = "1.2.0"

// Info describes the running binary.
type Info struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the build information. Without ldflags the commit comes from
// the VCS stamp Go embeds in the binary.
func Get() Info {
	commit := CommitHash
	if commit == "" {
		commit = vcsRevision()
	}
	return Info{
		Version:    Version,
		APIVersion: APIVersion,
		CommitHash: commit,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return "unknown"
}

func (i Info) String() string {
	return fmt.Sprintf("xlat %s (api %s, commit %s, built %s)", i.Version, i.APIVersion, i.CommitHash, i.BuildTime)
}
