// Package courses attributes rows of the course-level listing to master
// colleges.
//
// The Linker projects every course row whose college name matches a master
// college into a denormalized course entry and records every other row as
// a drop with its reason. The Enricher fills "not available" metadata of
// matched colleges from the course table. Enrichment runs before course
// linking so the projected entries carry the enriched values.
package courses

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/fuzzy"
	"github.com/agentstation/collegemap/pkg/logging"
)

// DropReason explains why a course row produced no entry.
type DropReason string

// Drop reasons.
const (
	ReasonLowScore     DropReason = "low_score"
	ReasonNoCandidates DropReason = "no_candidates"
)

// Drop is a course row that could not be attributed to a college.
type Drop struct {
	Row           int        `json:"row" yaml:"row"`
	CollegeName   string     `json:"college_name" yaml:"college_name"`
	Course        string     `json:"course" yaml:"course"`
	BestCandidate string     `json:"best_candidate,omitempty" yaml:"best_candidate,omitempty"`
	Score         int        `json:"score" yaml:"score"`
	Reason        DropReason `json:"reason" yaml:"reason"`
}

// Result is the outcome of a course linking pass.
type Result struct {
	Entries  []colleges.CourseEntry `json:"-" yaml:"-"`
	Drops    []Drop                 `json:"drops" yaml:"drops"`
	Total    int                    `json:"total" yaml:"total"`
	Names    int                    `json:"distinct_names" yaml:"distinct_names"`
	Duration time.Duration          `json:"duration" yaml:"duration"`
}

// Linked returns the number of emitted course entries.
func (r *Result) Linked() int {
	return len(r.Entries)
}

// DropsByReason counts drops per reason.
func (r *Result) DropsByReason() map[DropReason]int {
	counts := make(map[DropReason]int)
	for _, d := range r.Drops {
		counts[d.Reason]++
	}
	return counts
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	return fmt.Sprintf("Linked %d of %d course rows (%d dropped, %d distinct college names)",
		len(r.Entries), r.Total, len(r.Drops), r.Names)
}

// Linker projects course rows onto a finalized collection.
type Linker struct {
	threshold int
	scorer    fuzzy.Scorer
	logger    *zerolog.Logger
}

// NewLinker creates a course Linker with options.
func NewLinker(opts ...Option) (*Linker, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Linker{threshold: o.threshold, scorer: o.scorer, logger: o.logger}, nil
}

// Threshold returns the acceptance threshold.
func (l *Linker) Threshold() int {
	return l.threshold
}

// Link matches every row's raw college name against the distinct names of
// coll. The collection is only read. Every row ends up either as an entry
// or as a drop.
func (l *Linker) Link(ctx context.Context, coll *colleges.Collection, rows []colleges.CourseRow) (*Result, error) {
	logger := l.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	start := time.Now()

	matcher := newMemoMatcher(l.scorer, coll.Names())
	result := &Result{
		Entries: make([]colleges.CourseEntry, 0, len(rows)),
		Total:   len(rows),
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, errors.Canceled(err)
		}
		m := matcher.best(row.CollegeName)
		switch {
		case !m.ok:
			result.Drops = append(result.Drops, newDrop(row, m, ReasonNoCandidates))
		case m.score < l.threshold:
			result.Drops = append(result.Drops, newDrop(row, m, ReasonLowScore))
		default:
			record, _ := coll.First(m.candidate)
			result.Entries = append(result.Entries, colleges.Snapshot(record, row, m.score))
		}
	}

	result.Names = matcher.distinct()
	result.Duration = time.Since(start)

	event := logger.Info()
	if len(result.Drops) > 0 {
		event = logger.Warn()
		for reason, n := range result.DropsByReason() {
			event = event.Int(string(reason), n)
		}
	}
	event.
		Int("rows", result.Total).
		Int("linked", len(result.Entries)).
		Int("dropped", len(result.Drops)).
		Int("distinct_names", result.Names).
		Int("threshold", l.threshold).
		Dur("duration", result.Duration).
		Msg("Course link complete")
	return result, nil
}

func newDrop(row colleges.CourseRow, m match, reason DropReason) Drop {
	return Drop{
		Row:           row.Row,
		CollegeName:   row.CollegeName,
		Course:        row.Course,
		BestCandidate: m.candidate,
		Score:         m.score,
		Reason:        reason,
	}
}
