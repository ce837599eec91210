package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is stamped with -ldflags "-X github.com/abhisek/studyz/cmd.version=v1.2.3".
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the studyz version and where it came from",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		fmt.Println(versionString(version, info))
	},
}

// versionString prefers the linker-stamped version, then the module
// version recorded by `go install`, then the VCS revision of a local build.
func versionString(stamped string, info *debug.BuildInfo) string {
	if stamped != "" {
		return fmt.Sprintf("studyz %s (ldflags)", stamped)
	}
	if info == nil {
		return "studyz (devel)"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return fmt.Sprintf("studyz %s (module, %s)", v, info.GoVersion)
	}

	var rev, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				modified = "+dirty"
			}
		}
	}
	if rev != "" {
		if len(rev) > 12 {
			rev = rev[:12]
		}
		return fmt.Sprintf("studyz (devel) %s%s (vcs, %s)", rev, modified, info.GoVersion)
	}
	return fmt.Sprintf("studyz (devel) (%s)", info.GoVersion)
}
