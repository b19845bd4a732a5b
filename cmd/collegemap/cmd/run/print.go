package run

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/collegemap/internal/cleaning"
	"github.com/agentstation/collegemap/internal/cmd/output"
	"github.com/agentstation/collegemap/internal/export"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/courses"
	"github.com/agentstation/collegemap/pkg/linker"
	"github.com/agentstation/collegemap/pkg/pipeline"
)

// Summary is the machine-readable run output.
type Summary struct {
	Inputs     []cleaning.Stats       `json:"inputs" yaml:"inputs"`
	Colleges   int                    `json:"colleges" yaml:"colleges"`
	Ranked     int                    `json:"ranked" yaml:"ranked"`
	Ranking    linker.Stats           `json:"ranking" yaml:"ranking"`
	Enrichment *courses.EnrichResult  `json:"enrichment" yaml:"enrichment"`
	Courses    CourseSummary          `json:"courses" yaml:"courses"`
	TopRanked  []export.RankedCollege `json:"top_ranked" yaml:"top_ranked"`
	Outputs    []string               `json:"outputs" yaml:"outputs"`
	Duration   string                 `json:"duration" yaml:"duration"`
}

// CourseSummary reports the course projection.
type CourseSummary struct {
	Total    int                        `json:"total" yaml:"total"`
	Linked   int                        `json:"linked" yaml:"linked"`
	Dropped  int                        `json:"dropped" yaml:"dropped"`
	ByReason map[courses.DropReason]int `json:"by_reason,omitempty" yaml:"by_reason,omitempty"`
}

func newSummary(res *pipeline.Result) Summary {
	return Summary{
		Inputs:     res.Inputs,
		Colleges:   res.Collection.Len(),
		Ranked:     len(res.Collection.Ranked()),
		Ranking:    res.Ranking.Stats,
		Enrichment: res.Enrichment,
		Courses: CourseSummary{
			Total:    res.Courses.Total,
			Linked:   res.Courses.Linked(),
			Dropped:  len(res.Courses.Drops),
			ByReason: res.Courses.DropsByReason(),
		},
		TopRanked: export.TopRanked(res.Collection, constants.TopRankedCount),
		Outputs:   res.Outputs,
		Duration:  res.Duration.String(),
	}
}

func display(cmd *cobra.Command, format string, cfg pipeline.Config, res *pipeline.Result) error {
	if format != string(output.FormatTable) {
		return output.PrintAny(cmd.OutOrStdout(), format, newSummary(res))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Summary())
	fmt.Fprintf(out, "\nThresholds: ranking %d, course %d (%s)\n", cfg.RankingThreshold, cfg.CourseThreshold, cfg.Scorer)

	top := export.TopRanked(res.Collection, constants.TopRankedCount)
	if len(top) > 0 {
		fmt.Fprintln(out, "\nTop ranked colleges:")
		if err := output.Print(out, format, rankedTable(top), top); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "\nOutputs:")
	for _, path := range res.Outputs {
		fmt.Fprintf(out, "  %s\n", path)
	}
	return nil
}

func rankedTable(top []export.RankedCollege) output.Data {
	rows := make([][]string, 0, len(top))
	for _, c := range top {
		rows = append(rows, []string{strconv.Itoa(c.Rank), c.Name, c.City, c.State, c.Sources})
	}
	return output.Data{
		Headers:         []string{"Rank", "College", "City", "State", "Sources"},
		Rows:            rows,
		ColumnAlignment: []output.Align{output.AlignRight, output.AlignLeft, output.AlignLeft, output.AlignLeft, output.AlignLeft},
	}
}
