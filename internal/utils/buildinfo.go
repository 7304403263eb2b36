package utils

import (
	"runtime/debug"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
	revisionSettingKey = "vcs.revision"
	shortRevisionWidth = 12
)

// Version is injected at build time with -ldflags "-X github.com/temirov/ctxdrop/internal/utils.Version=v1.2.3".
var Version string

// GetApplicationVersion determines the application version.
// It prefers the injected Version, then the module version recorded in the
// build info, then the VCS revision the binary was built from.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == revisionSettingKey && setting.Value != "" {
			revision := setting.Value
			if len(revision) > shortRevisionWidth {
				revision = revision[:shortRevisionWidth]
			}
			return revision
		}
	}
	return unknownVersion
}
