// Package clean provides the clean command, which runs the cleaning stage
// alone and writes cleaned copies of the inputs.
package clean

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/collegemap/internal/appcontext"
	"github.com/agentstation/collegemap/internal/cleaning"
	"github.com/agentstation/collegemap/internal/cmd/cmdutil"
	"github.com/agentstation/collegemap/internal/cmd/output"
	"github.com/agentstation/collegemap/pkg/errors"
)

// Result is the machine-readable clean output.
type Result struct {
	Inputs  []cleaning.Stats `json:"inputs" yaml:"inputs"`
	Outputs []string         `json:"outputs" yaml:"outputs"`
}

// NewCommand creates the clean command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clean",
		GroupID: "core",
		Short:   "Clean the inputs without merging",
		Long: `Clean loads the three inputs, standardizes names, courses, fees and ranks,
and writes cleaned_*.csv copies to the output directory. Cells that fail to
parse are replaced by their defaults and counted per column.`,
		Args: cobra.NoArgs,
	}
	inputs := cmdutil.AddInputFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg := app.PipelineConfig()
		inputs.Apply(cmd, &cfg)
		if cfg.OutDir == "" {
			return errors.NewConfigError("clean", "output directory is required", nil)
		}

		in, err := cleaning.Load(cmd.Context(), cfg.Paths)
		if err != nil {
			return err
		}
		written, err := cleaning.WriteCleaned(cmd.Context(), cfg.OutDir, in)
		if err != nil {
			return err
		}

		result := Result{Inputs: in.Stats(), Outputs: written}
		if err := output.Print(cmd.OutOrStdout(), app.OutputFormat(), statsTable(result.Inputs), result); err != nil {
			return err
		}
		if app.OutputFormat() == string(output.FormatTable) {
			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
		}
		return nil
	}
	return cmd
}

func statsTable(stats []cleaning.Stats) output.Data {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Dataset,
			strconv.Itoa(s.Rows),
			s.Encoding,
			strconv.Itoa(s.TotalCoerced()),
			s.Path,
		})
	}
	return output.Data{
		Headers:         []string{"Dataset", "Rows", "Encoding", "Coerced", "Path"},
		Rows:            rows,
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight, output.AlignLeft, output.AlignRight, output.AlignLeft},
	}
}
