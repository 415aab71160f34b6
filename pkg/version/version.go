// Package version exposes build information injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/mhrivnak/nutanix-shim/pkg/version.version=v0.1.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{
		Version:   version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", i.Version, i.GitCommit, i.BuildTime, i.GoVersion)
}
