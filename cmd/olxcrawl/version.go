package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set for release builds via -ldflags.
var version = ""

// buildVersion resolves the version shown to the user: the release
// version when set, otherwise the module version the toolchain recorded
// in the binary.
func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// buildRevision returns the VCS revision baked into the binary,
// shortened for display, or "" when the build carried none.
func buildRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return ""
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := "olxcrawl version " + buildVersion()
			if rev := buildRevision(); rev != "" {
				out += " (" + rev + ")"
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		},
	}
}
