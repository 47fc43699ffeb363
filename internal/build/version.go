package build

import "strings"

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

const Tool = "condrun"

// FullVersion returns the version string with commit hash appended.
// Format: "Version+Commit" (e.g., "1.0.0+abc123")
func FullVersion() string {
	return Version + "+" + Commit
}

// Info is the build metadata as printed by the version command.
type Info struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

// Current collects the linked-in build metadata. Empty values read as
// "unknown", an empty version as "dev".
func Current() Info {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Info{
		Tool:      Tool,
		Version:   v,
		Commit:    valueOrUnknown(Commit),
		BuildTime: valueOrUnknown(BuildTime),
	}
}

func valueOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
