// Package match provides the match command, which shows how a name scores
// against the college directory.
package match

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/collegemap/internal/appcontext"
	"github.com/agentstation/collegemap/internal/cleaning"
	"github.com/agentstation/collegemap/internal/cmd/cmdutil"
	"github.com/agentstation/collegemap/internal/cmd/output"
	"github.com/agentstation/collegemap/internal/matcher"
	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/fuzzy"
	"github.com/agentstation/collegemap/pkg/normalize"
)

// Candidate is one scored directory name.
type Candidate struct {
	Name     string `json:"name" yaml:"name"`
	Score    int    `json:"score" yaml:"score"`
	Accepted bool   `json:"accepted" yaml:"accepted"`
	Phonetic bool   `json:"phonetic_match" yaml:"phonetic_match"`
}

// Result is the match command output.
type Result struct {
	Query      string      `json:"query" yaml:"query"`
	Normalized string      `json:"normalized" yaml:"normalized"`
	Scorer     string      `json:"scorer" yaml:"scorer"`
	Threshold  int         `json:"threshold" yaml:"threshold"`
	Pool       int         `json:"pool" yaml:"pool"`
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
}

// NewCommand creates the match command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		limit   int
		filters []string
	)

	cmd := &cobra.Command{
		Use:     "match <name>",
		GroupID: "core",
		Short:   "Score a college name against the directory",
		Long: `Match normalizes a college name the way the cleaning stage does and
prints the best scoring directory names. A candidate is accepted when its
score reaches the ranking threshold.

--filter restricts the candidate pool. A filter is a case-insensitive
substring, "glob:<pattern>" or "re:<regexp>"; a name is kept when any
filter matches.`,
		Example: `  collegemap match "IIT Madras"
  collegemap match "Govt Engg College" --limit 10 --filter Kerala
  collegemap match "NIT Trichy" --filter "re:^National" --scorer token_sort_jaro_winkler`,
		Args: cobra.ExactArgs(1),
	}
	inputs := cmdutil.AddInputFlags(cmd)
	matching := cmdutil.AddMatchFlags(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "Number of candidates to show")
	cmd.Flags().StringSliceVar(&filters, "filter", nil, "Candidate name filters")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := app.PipelineConfig()
		inputs.Apply(cmd, &cfg)
		matching.Apply(cmd, &cfg)
		if limit <= 0 {
			return errors.NewValidationError("limit", limit, "must be positive")
		}
		scorer, err := fuzzy.ScorerByName(cfg.Scorer)
		if err != nil {
			return err
		}
		filter, err := matcher.NewMultiMatcher(filters...)
		if err != nil {
			return errors.NewValidationError("filter", filters, err.Error())
		}

		dir, err := cleaning.LoadDirectory(cmd.Context(), cfg.Paths.Directory)
		if err != nil {
			return err
		}
		names := filter.Filter(colleges.NewCollection(dir.Colleges...).Names())

		result := Score(args[0], names, scorer, cfg.RankingThreshold, limit)
		return output.Print(cmd.OutOrStdout(), app.OutputFormat(), candidateTable(result), result)
	}
	return cmd
}

// Score ranks names against query after normalizing it as a college name.
func Score(query string, names []string, scorer fuzzy.Scorer, threshold, limit int) Result {
	normalized := normalize.CollegeName(query)
	key := fuzzy.PhoneticKey(normalized)

	result := Result{
		Query:      query,
		Normalized: normalized,
		Scorer:     scorer.Name(),
		Threshold:  threshold,
		Pool:       len(names),
	}
	for _, c := range fuzzy.Rank(normalized, names, scorer, limit) {
		result.Candidates = append(result.Candidates, Candidate{
			Name:     c.Name,
			Score:    c.Score,
			Accepted: c.Score >= threshold,
			Phonetic: key != "" && fuzzy.PhoneticKey(c.Name) == key,
		})
	}
	return result
}

func candidateTable(r Result) output.Data {
	rows := make([][]string, 0, len(r.Candidates))
	for i, c := range r.Candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Name,
			strconv.Itoa(c.Score),
			yesNo(c.Accepted),
			yesNo(c.Phonetic),
		})
	}
	return output.Data{
		Headers:         []string{"#", "Candidate", "Score", "Accepted", "Phonetic"},
		Rows:            rows,
		ColumnAlignment: []output.Align{output.AlignRight, output.AlignLeft, output.AlignRight, output.AlignCenter, output.AlignCenter},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
