// Package appinfo reports build information for health checks and the CLI
package appinfo

import (
	"os"
	"runtime/debug"
)

// Version is set at build time with -ldflags "-X studyos/internal/utils/appinfo.Version=..."
var Version = ""

// GetVersion returns the application version
// It checks, in order, the linker value, APP_VERSION, then the VCS revision from build info.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	if version := os.Getenv("APP_VERSION"); version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				if len(setting.Value) > 12 {
					return setting.Value[:12]
				}
				return setting.Value
			}
		}
	}

	return "0.0.0-dev"
}
