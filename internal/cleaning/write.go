package cleaning

import (
	"context"
	"path/filepath"

	"github.com/agentstation/collegemap/internal/tables"
	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/logging"
)

// Cleaned copy file names, without the prefix.
const (
	cleanedDirectory = "engineering_colleges_india.csv"
	cleanedCourses   = "engineering.csv"
	cleanedRankings  = "nirf_rankings.csv"
)

// Inputs groups the three cleaned tables.
type Inputs struct {
	Directory *Directory
	Courses   *Courses
	Rankings  *Rankings
}

// Paths names the three raw input files.
type Paths struct {
	Directory string
	Courses   string
	Rankings  string
}

// DefaultPaths returns the standard input locations under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Directory: filepath.Join(dir, constants.DirectoryFile),
		Courses:   filepath.Join(dir, constants.CoursesFile),
		Rankings:  filepath.Join(dir, constants.RankingsFile),
	}
}

// Load loads all three inputs.
func Load(ctx context.Context, paths Paths) (*Inputs, error) {
	directory, err := LoadDirectory(ctx, paths.Directory)
	if err != nil {
		return nil, err
	}
	courses, err := LoadCourses(ctx, paths.Courses)
	if err != nil {
		return nil, err
	}
	rankings, err := LoadRankings(ctx, paths.Rankings)
	if err != nil {
		return nil, err
	}
	return &Inputs{Directory: directory, Courses: courses, Rankings: rankings}, nil
}

// Stats returns the stats of each loaded input.
func (in *Inputs) Stats() []Stats {
	return []Stats{in.Directory.Stats, in.Courses.Stats, in.Rankings.Stats}
}

// WriteCleaned writes cleaned_*.csv copies of the inputs into dir and
// returns the written paths.
func WriteCleaned(ctx context.Context, dir string, in *Inputs) ([]string, error) {
	logger := logging.FromContext(ctx)

	directoryPath := filepath.Join(dir, constants.CleanedPrefix+cleanedDirectory)
	header := append(append([]string(nil), DirectoryColumns...), in.Directory.ExtraColumns...)
	rows := make([][]string, 0, len(in.Directory.Colleges))
	for _, c := range in.Directory.Colleges {
		rows = append(rows, DirectoryRecord(c, in.Directory.ExtraColumns))
	}
	if err := tables.Write(directoryPath, header, rows); err != nil {
		return nil, err
	}

	coursesPath := filepath.Join(dir, constants.CleanedPrefix+cleanedCourses)
	rows = make([][]string, 0, len(in.Courses.Rows))
	for _, r := range in.Courses.Rows {
		rows = append(rows, CourseRecord(r))
	}
	if err := tables.Write(coursesPath, CourseColumns, rows); err != nil {
		return nil, err
	}

	rankingsPath := filepath.Join(dir, constants.CleanedPrefix+cleanedRankings)
	rows = make([][]string, 0, len(in.Rankings.Entries))
	for _, e := range in.Rankings.Entries {
		rows = append(rows, RankingRecord(e))
	}
	if err := tables.Write(rankingsPath, RankingColumns, rows); err != nil {
		return nil, err
	}

	written := []string{directoryPath, coursesPath, rankingsPath}
	for _, p := range written {
		logger.Info().Str("file", p).Msg("Wrote cleaned table")
	}
	return written, nil
}

// TopRanked returns up to n ranking entries with rank <= n, in file order.
func (r *Rankings) TopRanked(n int) []colleges.RankingEntry {
	var top []colleges.RankingEntry
	for _, e := range r.Entries {
		if e.Rank <= n {
			top = append(top, e)
		}
	}
	return top
}
