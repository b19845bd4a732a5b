// Package pipeline runs the merge end to end: load and clean the three
// inputs, link the ranking list into the directory, enrich from the course
// table, project the course table and write the outputs.
//
// The stage order is fixed. The course table only sees the collection
// after every ranking insert and every enrichment has been applied.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/agentstation/collegemap/internal/cleaning"
	"github.com/agentstation/collegemap/internal/export"
	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/courses"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/fuzzy"
	"github.com/agentstation/collegemap/pkg/linker"
	"github.com/agentstation/collegemap/pkg/logging"
	"github.com/agentstation/collegemap/pkg/provenance"
)

// Stage names used in errors and logs.
const (
	StageClean   = "clean"
	StageLink    = "link"
	StageEnrich  = "enrich"
	StageCourses = "courses"
	StageExport  = "export"
)

// Run executes the pipeline. A failed stage aborts the run with an error
// matching *errors.ProcessError.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	logger := logging.FromContext(ctx)
	scorer, _ := fuzzy.ScorerByName(cfg.Scorer)
	cfg.Scorer = scorer.Name()
	tracker := provenance.NewTracker(cfg.Provenance)

	logger.Info().
		Str("stage", StageClean).
		Str("directory", cfg.Paths.Directory).
		Str("courses", cfg.Paths.Courses).
		Str("rankings", cfg.Paths.Rankings).
		Msg("Loading inputs")
	in, err := cleaning.Load(ctx, cfg.Paths)
	if err != nil {
		return nil, errors.WrapStage(StageClean, err)
	}
	result := &Result{Inputs: in.Stats()}
	if cfg.Cleaned {
		paths, err := cleaning.WriteCleaned(ctx, cfg.OutDir, in)
		if err != nil {
			return nil, errors.WrapStage(StageClean, err)
		}
		result.Outputs = append(result.Outputs, paths...)
	}

	coll := colleges.NewCollection(in.Directory.Colleges...)
	result.Collection = coll

	rankLinker, err := linker.New(
		linker.WithThreshold(cfg.RankingThreshold),
		linker.WithScorer(scorer),
		linker.WithTracker(tracker),
	)
	if err != nil {
		return nil, errors.WrapStage(StageLink, err)
	}
	if result.Ranking, err = rankLinker.Link(ctx, coll, in.Rankings.Entries); err != nil {
		return nil, errors.WrapStage(StageLink, err)
	}

	enricher, err := courses.NewEnricher(
		courses.WithThreshold(cfg.CourseThreshold),
		courses.WithScorer(scorer),
		courses.WithTracker(tracker),
	)
	if err != nil {
		return nil, errors.WrapStage(StageEnrich, err)
	}
	if result.Enrichment, err = enricher.Enrich(ctx, coll, in.Courses.Rows); err != nil {
		return nil, errors.WrapStage(StageEnrich, err)
	}

	courseLinker, err := courses.NewLinker(
		courses.WithThreshold(cfg.CourseThreshold),
		courses.WithScorer(scorer),
	)
	if err != nil {
		return nil, errors.WrapStage(StageCourses, err)
	}
	if result.Courses, err = courseLinker.Link(ctx, coll, in.Courses.Rows); err != nil {
		return nil, errors.WrapStage(StageCourses, err)
	}

	outputs, err := write(ctx, cfg, in, result, tracker, start)
	if err != nil {
		return nil, errors.WrapStage(StageExport, err)
	}
	result.Outputs = append(result.Outputs, outputs...)
	result.Duration = time.Since(start)

	logger.Info().
		Int("colleges", coll.Len()).
		Int("ranked", len(coll.Ranked())).
		Int("course_entries", len(result.Courses.Entries)).
		Int("course_drops", len(result.Courses.Drops)).
		Dur("duration", result.Duration).
		Msg("Pipeline complete")
	return result, nil
}

func write(ctx context.Context, cfg Config, in *cleaning.Inputs, result *Result, tracker provenance.Tracker, start time.Time) ([]string, error) {
	logger := logging.FromContext(ctx).With().Str("stage", StageExport).Logger()
	coll := result.Collection

	collegesPath := filepath.Join(cfg.OutDir, constants.MasterCollegesFile)
	if err := export.WriteColleges(collegesPath, coll.All(), in.Directory.ExtraColumns); err != nil {
		return nil, err
	}
	coursesPath := filepath.Join(cfg.OutDir, constants.MasterCoursesFile)
	if err := export.WriteCourses(coursesPath, result.Courses.Entries); err != nil {
		return nil, err
	}
	outputs := []string{collegesPath, coursesPath}

	if cfg.SQLite {
		path := filepath.Join(cfg.OutDir, constants.SQLiteFile)
		if err := export.WriteSQLite(ctx, path, coll.All(), result.Courses.Entries); err != nil {
			return nil, err
		}
		outputs = append(outputs, path)
	}
	if cfg.Provenance {
		path := filepath.Join(cfg.OutDir, constants.ProvenanceFile)
		if err := provenance.Save(path, tracker.Map()); err != nil {
			return nil, err
		}
		outputs = append(outputs, path)
	}
	if cfg.Report {
		path := filepath.Join(cfg.OutDir, constants.ReportFile)
		outputs = append(outputs, path)
		report := &export.Report{
			GeneratedAt: start.UTC(),
			Settings: export.ReportSettings{
				RankingThreshold: cfg.RankingThreshold,
				CourseThreshold:  cfg.CourseThreshold,
				Scorer:           cfg.Scorer,
			},
			Inputs:     result.Inputs,
			Totals:     export.NewTotals(coll),
			Ranking:    export.NewRankingSection(result.Ranking),
			Enrichment: result.Enrichment,
			Courses:    export.NewCourseSection(result.Courses),
			TopRanked:  export.TopRanked(coll, constants.TopRankedCount),
			Outputs:    append(append([]string(nil), result.Outputs...), outputs...),
		}
		if err := export.WriteReport(path, report); err != nil {
			return nil, err
		}
	}

	for _, path := range outputs {
		logger.Info().Str("file", path).Msg("Wrote output")
	}
	return outputs, nil
}
