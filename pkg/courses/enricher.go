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
	"github.com/agentstation/collegemap/pkg/provenance"
)

// EnrichResult is the outcome of an enrichment pass.
type EnrichResult struct {
	Matched      int           `json:"matched" yaml:"matched"`
	Unmatched    int           `json:"unmatched" yaml:"unmatched"`
	FieldsFilled int           `json:"fields_filled" yaml:"fields_filled"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Summary returns a human-readable summary of the result.
func (r *EnrichResult) Summary() string {
	return fmt.Sprintf("Enriched %d colleges from the course table (%d fields filled, %d names unmatched)",
		r.Matched, r.FieldsFilled, r.Unmatched)
}

// Enricher fills missing college metadata from course rows.
type Enricher struct {
	threshold int
	scorer    fuzzy.Scorer
	source    string
	logger    *zerolog.Logger
	tracker   provenance.Tracker
}

// NewEnricher creates an Enricher with options.
func NewEnricher(opts ...Option) (*Enricher, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Enricher{
		threshold: o.threshold,
		scorer:    o.scorer,
		source:    o.source,
		logger:    o.logger,
		tracker:   o.tracker,
	}, nil
}

// field is a course-level metadata field of a college.
type field struct {
	name  string
	get   func(*colleges.College) *string
	value func(colleges.CourseRow) string
}

var enrichedFields = []field{
	{"region", func(c *colleges.College) *string { return &c.Region }, func(r colleges.CourseRow) string { return r.Region }},
	{"district", func(c *colleges.College) *string { return &c.District }, func(r colleges.CourseRow) string { return r.District }},
	{"address", func(c *colleges.College) *string { return &c.Address }, func(r colleges.CourseRow) string { return r.Address }},
	{"institute_type", func(c *colleges.College) *string { return &c.InstituteType }, func(r colleges.CourseRow) string { return r.InstituteType }},
	{"category", func(c *colleges.College) *string { return &c.Category }, func(r colleges.CourseRow) string { return r.Category }},
	{"website", func(c *colleges.College) *string { return &c.Website }, func(r colleges.CourseRow) string { return r.Website }},
	{"nba", func(c *colleges.College) *string { return &c.NBA }, func(r colleges.CourseRow) string { return r.NBA }},
	{"naac", func(c *colleges.College) *string { return &c.NAAC }, func(r colleges.CourseRow) string { return r.NAAC }},
	{"ranking_status", func(c *colleges.College) *string { return &c.RankingStatus }, func(r colleges.CourseRow) string { return r.RankingStatus }},
	{"women_institute", func(c *colleges.College) *string { return &c.WomenInstitute }, func(r colleges.CourseRow) string { return r.WomenInstitute }},
}

// Enrich matches each distinct raw college name of rows, in first-seen
// order, against coll. For an accepted name the first row with that name
// fills the missing metadata of the first record with the matched name.
// Fields that already hold a value are never overwritten.
func (e *Enricher) Enrich(ctx context.Context, coll *colleges.Collection, rows []colleges.CourseRow) (*EnrichResult, error) {
	logger := e.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	start := time.Now()

	matcher := newMemoMatcher(e.scorer, coll.Names())
	result := &EnrichResult{}
	seen := make(map[string]struct{})

	for _, row := range rows {
		if _, dup := seen[row.CollegeName]; dup {
			continue
		}
		seen[row.CollegeName] = struct{}{}
		if err := ctx.Err(); err != nil {
			return nil, errors.Canceled(err)
		}

		m := matcher.best(row.CollegeName)
		if !m.ok || m.score < e.threshold {
			result.Unmatched++
			continue
		}
		record, _ := coll.First(m.candidate)
		filled := e.fill(record, row, m.score)
		record.Sources.Add(e.source)
		result.Matched++
		result.FieldsFilled += filled

		logger.Debug().
			Str("name", row.CollegeName).
			Str("college", record.Name).
			Int("score", m.score).
			Int("fields_filled", filled).
			Msg("Enriched college")
	}

	result.Duration = time.Since(start)
	logger.Info().
		Int("matched", result.Matched).
		Int("unmatched", result.Unmatched).
		Int("fields_filled", result.FieldsFilled).
		Int("threshold", e.threshold).
		Dur("duration", result.Duration).
		Msg("Enrichment complete")
	return result, nil
}

// fill copies available row values into unavailable record fields.
func (e *Enricher) fill(record *colleges.College, row colleges.CourseRow, score int) int {
	filled := 0
	for _, f := range enrichedFields {
		target := f.get(record)
		value := f.value(row)
		if colleges.IsAvailable(*target) || !colleges.IsAvailable(value) {
			continue
		}
		e.tracker.Track(record.ID, provenance.Provenance{
			Source:        e.source,
			Field:         f.name,
			Value:         value,
			PreviousValue: *target,
			Score:         score,
			Reason:        "fill_missing",
		})
		*target = value
		filled++
	}
	return filled
}
