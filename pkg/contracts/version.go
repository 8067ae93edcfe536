package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the release of this build
	Version = "0.1.0-alpha.1"

	// VersionStage is the release stage reported by /api/version
	VersionStage = "alpha"

	// APIVersion is the version of the HTTP API contracts
	APIVersion = "v1-alpha"
)

// Stamped by build.go through -ldflags "-X".
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version    string `json:"version"`
	Stage      string `json:"stage"`
	APIVersion string `json:"api_version"`
	BuildTime  string `json:"build_time"`
	GitCommit  string `json:"git_commit"`
	GitBranch  string `json:"git_branch"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"` // GOOS/GOARCH
}

// GetVersionInfo collects the build stamps and runtime details
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:    Version,
		Stage:      VersionStage,
		APIVersion: APIVersion,
		BuildTime:  BuildTime,
		GitCommit:  GitCommit,
		GitBranch:  GitBranch,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetVersionString returns "genaidash v<version>"
func GetVersionString() string {
	return "genaidash v" + Version
}

// GetFullVersionString adds the build stamps to GetVersionString
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s (commit %s on %s, built %s, %s %s)",
		GetVersionString(), info.GitCommit, info.GitBranch, info.BuildTime, info.GoVersion, info.Platform)
}
