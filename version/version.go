package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

var (
	// Set through -ldflags.
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Module    string `json:"module"`
}

// buildSetting returns a VCS stamp recorded by the Go toolchain.
func buildSetting(key string) (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range info.Settings {
		if s.Key == key && s.Value != "" {
			return s.Value, true
		}
	}
	return "", false
}

// GetVersion prefers the injected version, then the module version.
func GetVersion() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "development"
}

func GetCommit() string {
	if Commit != unknown && Commit != "" {
		return Commit
	}
	if rev, ok := buildSetting("vcs.revision"); ok {
		return rev
	}
	return unknown
}

func GetBuildDate() string {
	if Date != unknown && Date != "" {
		return Date
	}
	if t, ok := buildSetting("vcs.time"); ok {
		return t
	}
	return unknown
}

func GetInfo() Info {
	modified, _ := buildSetting("vcs.modified")
	module := "github.com/dendrascience/dendra-hid"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path != "" {
		module = info.Main.Path
	}
	return Info{
		Version:   GetVersion(),
		Commit:    GetCommit(),
		Date:      GetBuildDate(),
		Modified:  modified == "true",
		GoVersion: runtime.Version(),
		Module:    module,
	}
}

// ShortCommit abbreviates a commit hash to seven characters.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 && i.Commit != unknown {
		return i.Commit[:7]
	}
	return i.Commit
}

// String formats the version with its commit and date when known, such as
// "v0.3.0 (1a2b3c4, built 2026-01-02T03:04:05Z)".
func (i Info) String() string {
	if i.Commit == unknown || i.Commit == "" {
		return i.Version
	}
	commit := i.ShortCommit()
	if i.Modified {
		commit += "-dirty"
	}
	if i.Date != unknown && i.Date != "" {
		return fmt.Sprintf("%s (%s, built %s)", i.Version, commit, i.Date)
	}
	return fmt.Sprintf("%s (%s)", i.Version, commit)
}

func GetFullVersion() string { return GetInfo().String() }

// Write prints a multi-line version report for app.
func Write(w io.Writer, app string) error {
	info := GetInfo()
	_, err := fmt.Fprintf(w, "%s version %s\nModule: %s\nCommit: %s\nBuild Date: %s\nGo: %s\n",
		app, info, info.Module, info.Commit, info.Date, info.GoVersion)
	return err
}
