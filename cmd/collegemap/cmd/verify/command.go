// Package verify provides the verify command, which summarizes the master
// tables of a previous run.
package verify

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/collegemap/internal/appcontext"
	"github.com/agentstation/collegemap/internal/cmd/emoji"
	"github.com/agentstation/collegemap/internal/cmd/output"
	"github.com/agentstation/collegemap/internal/verify"
	"github.com/agentstation/collegemap/pkg/errors"
)

// ErrFailed is returned when a summary misses an expectation.
var ErrFailed = errors.New("verification failed")

// NewCommand creates the verify command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		dir         string
		minColleges int
		minRanked   int
		brands      []string
		strict      bool
	)

	cmd := &cobra.Command{
		Use:     "verify",
		GroupID: "core",
		Short:   "Summarize and check the master tables",
		Long: `Verify reads master_colleges.csv and master_courses.csv and reports the
number of colleges, ranked colleges and accredited colleges, the course
totals, the ten best ranked colleges and whether well-known institutions
are present.

Brand checks take "Label=pattern" or a bare pattern. Patterns are
case-insensitive substrings unless prefixed with "glob:" or "re:".`,
		Example: `  collegemap verify
  collegemap verify --dir out --min-colleges 100 --brand "IIT Madras=Madras"
  collegemap verify --strict -o json`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory holding the master tables (default: output directory)")
	cmd.Flags().IntVar(&minColleges, "min-colleges", 0, "Minimum number of colleges")
	cmd.Flags().IntVar(&minRanked, "min-ranked", 0, "Minimum number of ranked colleges")
	cmd.Flags().StringArrayVar(&brands, "brand", nil, "Brand check, repeatable")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when a check fails")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if !cmd.Flags().Changed("dir") {
			dir = app.PipelineConfig().OutDir
		}
		opts := app.VerifyOptions()
		if cmd.Flags().Changed("min-colleges") {
			opts = append(opts, verify.WithMinColleges(minColleges))
		}
		if cmd.Flags().Changed("min-ranked") {
			opts = append(opts, verify.WithMinRanked(minRanked))
		}
		if len(brands) > 0 {
			checks := make([]verify.BrandCheck, 0, len(brands))
			for _, b := range brands {
				checks = append(checks, verify.ParseBrandCheck(b))
			}
			opts = append(opts, verify.WithBrandChecks(checks...))
		}

		summary, err := verify.Run(cmd.Context(), dir, opts...)
		if err != nil {
			return err
		}

		format := app.OutputFormat()
		if format == string(output.FormatTable) {
			if err := display(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
		} else if err := output.PrintAny(cmd.OutOrStdout(), format, summary); err != nil {
			return err
		}

		if strict && !summary.Passed() {
			return ErrFailed
		}
		return nil
	}
	return cmd
}

func display(w io.Writer, s *verify.Summary) error {
	fmt.Fprintln(w, "Master colleges:")
	fmt.Fprintf(w, "  Total colleges:  %d\n", s.Colleges.Total)
	fmt.Fprintf(w, "  Columns:         %d\n", s.Colleges.Columns)
	fmt.Fprintf(w, "  Ranked:          %d\n", s.Colleges.Ranked)
	fmt.Fprintf(w, "  NBA accredited:  %d\n", s.Colleges.NBA)
	fmt.Fprintf(w, "  NAAC accredited: %d\n", s.Colleges.NAAC)

	fmt.Fprintln(w, "\nMaster courses:")
	fmt.Fprintf(w, "  Course entries:  %d\n", s.Courses.Total)
	fmt.Fprintf(w, "  Unique colleges: %d\n", s.Courses.UniqueColleges)
	fmt.Fprintf(w, "  Unique courses:  %d\n", s.Courses.UniqueCourses)

	if len(s.TopRanked) > 0 {
		fmt.Fprintln(w, "\nTop ranked colleges:")
		rows := make([][]string, 0, len(s.TopRanked))
		for _, c := range s.TopRanked {
			rows = append(rows, []string{strconv.Itoa(c.Rank), c.Name, c.City, c.State})
		}
		data := output.Data{
			Headers:         []string{"Rank", "College", "City", "State"},
			Rows:            rows,
			ColumnAlignment: []output.Align{output.AlignRight, output.AlignLeft, output.AlignLeft, output.AlignLeft},
		}
		if err := output.NewFormatter(output.FormatTable).Format(w, data); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "\nBrand checks:")
	for _, b := range s.Brands {
		status := "NOT FOUND"
		if b.Found {
			status = "found: " + b.Match
		}
		fmt.Fprintf(w, "  %s %-16s %s\n", emoji.Status(b.Found), b.Label, status)
	}

	fmt.Fprintln(w)
	if s.Passed() {
		fmt.Fprintf(w, "%s Verification passed\n", emoji.Success)
		return nil
	}
	fmt.Fprintf(w, "%s Verification issues:\n", emoji.Warning)
	for _, issue := range s.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
	return nil
}
