// Package run provides the run command, which executes the whole pipeline.
package run

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/collegemap/internal/appcontext"
	"github.com/agentstation/collegemap/internal/cmd/cmdutil"
	"github.com/agentstation/collegemap/pkg/pipeline"
)

// NewCommand creates the run command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		report     bool
		sqlite     bool
		provenance bool
		cleaned    bool
	)

	cmd := &cobra.Command{
		Use:     "run",
		GroupID: "core",
		Short:   "Run the merge pipeline",
		Long: `Run loads and cleans the three inputs, links the ranking list into the
college directory, fills missing college metadata from the course table,
projects the course table onto the merged colleges and writes
master_colleges.csv and master_courses.csv.

Ranking entries are merged at a fuzzy score of 95 or more and inserted as
new colleges otherwise. Course rows are attributed at 80 or more and
dropped otherwise; drops are reported, never silent.`,
		Example: `  collegemap run                               # Inputs and outputs under ./data
  collegemap run --out-dir out --report --sqlite
  collegemap run --course-threshold 90 -o json`,
		Args: cobra.NoArgs,
	}
	inputs := cmdutil.AddInputFlags(cmd)
	matching := cmdutil.AddMatchFlags(cmd)
	cmd.Flags().BoolVar(&report, "report", false, "Write report.yaml")
	cmd.Flags().BoolVar(&sqlite, "sqlite", false, "Write a SQLite snapshot of the master tables")
	cmd.Flags().BoolVar(&provenance, "provenance", false, "Write per-field provenance to provenance.yaml")
	cmd.Flags().BoolVar(&cleaned, "cleaned", false, "Also write cleaned_*.csv copies of the inputs")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg := app.PipelineConfig()
		inputs.Apply(cmd, &cfg)
		matching.Apply(cmd, &cfg)
		if cmd.Flags().Changed("report") {
			cfg.Report = report
		}
		if cmd.Flags().Changed("sqlite") {
			cfg.SQLite = sqlite
		}
		if cmd.Flags().Changed("provenance") {
			cfg.Provenance = provenance
		}
		if cmd.Flags().Changed("cleaned") {
			cfg.Cleaned = cleaned
		}

		res, err := pipeline.Run(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return display(cmd, app.OutputFormat(), cfg, res)
	}
	return cmd
}
