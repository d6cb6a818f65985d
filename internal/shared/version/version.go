// Package version holds the build version, overridable with
// -ldflags "-X hookdeps/internal/shared/version.Version=...".
package version

var Version = "0.3.0"

const Name = "hookdeps"
