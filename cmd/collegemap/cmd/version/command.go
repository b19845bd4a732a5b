// Package version provides the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/collegemap/internal/appcontext"
	"github.com/agentstation/collegemap/internal/cmd/output"
)

// Info is the version command output.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// NewCommand creates the version command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				Version:   app.Version(),
				Commit:    app.Commit(),
				Date:      app.Date(),
				BuiltBy:   app.BuiltBy(),
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if app.OutputFormat() == string(output.FormatTable) {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "collegemap version %s\n", info.Version)
				fmt.Fprintf(out, "commit: %s\n", info.Commit)
				fmt.Fprintf(out, "built: %s\n", info.Date)
				fmt.Fprintf(out, "built by: %s\n", info.BuiltBy)
				fmt.Fprintf(out, "go version: %s\n", info.GoVersion)
				fmt.Fprintf(out, "platform: %s\n", info.Platform)
				return nil
			}
			return output.PrintAny(cmd.OutOrStdout(), app.OutputFormat(), info)
		},
	}
}
