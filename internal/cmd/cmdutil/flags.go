// Package cmdutil provides shared flags for collegemap commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/collegemap/pkg/pipeline"
)

// InputFlags holds the input and output path flags.
type InputFlags struct {
	Directory string
	Courses   string
	Rankings  string
	OutDir    string
}

// AddInputFlags adds the path flags to a command. Unset flags keep the
// configured values.
func AddInputFlags(cmd *cobra.Command) *InputFlags {
	flags := &InputFlags{}

	cmd.Flags().StringVar(&flags.Directory, "directory", "",
		"College directory CSV")
	cmd.Flags().StringVar(&flags.Courses, "courses", "",
		"Course-level CSV")
	cmd.Flags().StringVar(&flags.Rankings, "rankings", "",
		"Ranking list CSV")
	cmd.Flags().StringVar(&flags.OutDir, "out-dir", "",
		"Directory for output files")

	return flags
}

// Apply overrides cfg with the flags set on the command line.
func (f *InputFlags) Apply(cmd *cobra.Command, cfg *pipeline.Config) {
	if cmd.Flags().Changed("directory") {
		cfg.Paths.Directory = f.Directory
	}
	if cmd.Flags().Changed("courses") {
		cfg.Paths.Courses = f.Courses
	}
	if cmd.Flags().Changed("rankings") {
		cfg.Paths.Rankings = f.Rankings
	}
	if cmd.Flags().Changed("out-dir") {
		cfg.OutDir = f.OutDir
	}
}

// MatchFlags holds the matching policy flags.
type MatchFlags struct {
	RankingThreshold int
	CourseThreshold  int
	Scorer           string
}

// AddMatchFlags adds the matching policy flags to a command.
func AddMatchFlags(cmd *cobra.Command) *MatchFlags {
	flags := &MatchFlags{}

	cmd.Flags().IntVar(&flags.RankingThreshold, "ranking-threshold", 0,
		"Minimum fuzzy score for merging a ranking entry (0-100)")
	cmd.Flags().IntVar(&flags.CourseThreshold, "course-threshold", 0,
		"Minimum fuzzy score for attributing a course row (0-100)")
	cmd.Flags().StringVar(&flags.Scorer, "scorer", "",
		"Fuzzy scorer: token_sort, token_sort_jaro_winkler")

	return flags
}

// Apply overrides cfg with the flags set on the command line.
func (f *MatchFlags) Apply(cmd *cobra.Command, cfg *pipeline.Config) {
	if cmd.Flags().Changed("ranking-threshold") {
		cfg.RankingThreshold = f.RankingThreshold
	}
	if cmd.Flags().Changed("course-threshold") {
		cfg.CourseThreshold = f.CourseThreshold
	}
	if cmd.Flags().Changed("scorer") {
		cfg.Scorer = f.Scorer
	}
}
