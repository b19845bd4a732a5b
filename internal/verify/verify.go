// Package verify summarizes the master tables written by the pipeline and
// checks them against minimum expectations.
package verify

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/collegemap/internal/export"
	"github.com/agentstation/collegemap/internal/matcher"
	"github.com/agentstation/collegemap/internal/tables"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/logging"
)

// Default pass criteria.
const (
	DefaultMinColleges = 5500
	DefaultMinRanked   = 190
)

// BrandCheck looks for at least one college name matching Pattern.
// Pattern is parsed with matcher.Parse, so a bare term is a
// case-insensitive substring.
type BrandCheck struct {
	Label   string `json:"label" yaml:"label"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// DefaultBrandChecks are the institutions every complete merge must contain.
var DefaultBrandChecks = []BrandCheck{
	{Label: "IIT Madras", Pattern: "Madras"},
	{Label: "IIT Delhi", Pattern: "Delhi"},
	{Label: "IIT Bombay", Pattern: "Bombay"},
	{Label: "IIT Kanpur", Pattern: "Kanpur"},
	{Label: "IIT Kharagpur", Pattern: "Kharagpur"},
}

// ParseBrandCheck reads "Label=pattern" or a bare pattern, which is then
// also the label.
func ParseBrandCheck(s string) BrandCheck {
	label, pattern, ok := strings.Cut(s, "=")
	if !ok {
		pattern = label
	}
	return BrandCheck{Label: strings.TrimSpace(label), Pattern: strings.TrimSpace(pattern)}
}

// BrandResult is the outcome of one BrandCheck.
type BrandResult struct {
	BrandCheck `yaml:",inline"`
	Found      bool   `json:"found" yaml:"found"`
	Match      string `json:"match,omitempty" yaml:"match,omitempty"`
}

// RankedCollege is one line of the top-ranked list.
type RankedCollege struct {
	Rank  int    `json:"rank" yaml:"rank"`
	Name  string `json:"name" yaml:"name"`
	City  string `json:"city" yaml:"city"`
	State string `json:"state" yaml:"state"`
}

// CollegeSummary describes the master college table.
type CollegeSummary struct {
	Total   int `json:"total" yaml:"total"`
	Columns int `json:"columns" yaml:"columns"`
	Ranked  int `json:"ranked" yaml:"ranked"`
	NBA     int `json:"nba_accredited" yaml:"nba_accredited"`
	NAAC    int `json:"naac_accredited" yaml:"naac_accredited"`
}

// CourseSummary describes the master course table.
type CourseSummary struct {
	Total          int `json:"total" yaml:"total"`
	UniqueColleges int `json:"unique_colleges" yaml:"unique_colleges"`
	UniqueCourses  int `json:"unique_courses" yaml:"unique_courses"`
}

// Summary is the verification result.
type Summary struct {
	Colleges    CollegeSummary  `json:"colleges" yaml:"colleges"`
	Courses     CourseSummary   `json:"courses" yaml:"courses"`
	TopRanked   []RankedCollege `json:"top_ranked" yaml:"top_ranked"`
	Brands      []BrandResult   `json:"brands" yaml:"brands"`
	MinColleges int             `json:"min_colleges" yaml:"min_colleges"`
	MinRanked   int             `json:"min_ranked" yaml:"min_ranked"`
	Issues      []string        `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Passed reports whether every expectation held.
func (s *Summary) Passed() bool {
	return len(s.Issues) == 0
}

// Option configures a verification run.
type Option func(*options) error

type options struct {
	minColleges int
	minRanked   int
	brands      []BrandCheck
	top         int
}

func defaultOptions() *options {
	return &options{
		minColleges: DefaultMinColleges,
		minRanked:   DefaultMinRanked,
		brands:      DefaultBrandChecks,
		top:         constants.TopRankedCount,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithMinColleges sets the minimum number of master colleges.
func WithMinColleges(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return &errors.ValidationError{Field: "min_colleges", Value: n, Message: "must not be negative"}
		}
		o.minColleges = n
		return nil
	}
}

// WithMinRanked sets the minimum number of ranked colleges.
func WithMinRanked(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return &errors.ValidationError{Field: "min_ranked", Value: n, Message: "must not be negative"}
		}
		o.minRanked = n
		return nil
	}
}

// WithBrandChecks replaces the default brand checks.
func WithBrandChecks(checks ...BrandCheck) Option {
	return func(o *options) error {
		for _, c := range checks {
			if _, err := matcher.Parse(c.Pattern); err != nil {
				return &errors.ValidationError{Field: "brand", Value: c.Pattern, Message: err.Error()}
			}
		}
		o.brands = checks
		return nil
	}
}

// WithTopRanked sets the length of the top-ranked list.
func WithTopRanked(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return &errors.ValidationError{Field: "top", Value: n, Message: "must be positive"}
		}
		o.top = n
		return nil
	}
}

// Run reads the master tables from dir and summarizes them.
func Run(ctx context.Context, dir string, opts ...Option) (*Summary, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)

	collegeTable, err := tables.Read(filepath.Join(dir, constants.MasterCollegesFile))
	if err != nil {
		return nil, errors.WrapResource("verify", "colleges", "", err)
	}
	if err := collegeTable.Require("College Name", export.ColRank); err != nil {
		return nil, err
	}
	courseTable, err := tables.Read(filepath.Join(dir, constants.MasterCoursesFile))
	if err != nil {
		return nil, errors.WrapResource("verify", "courses", "", err)
	}
	if err := courseTable.Require(export.ColCollegeName, export.ColCourse); err != nil {
		return nil, err
	}

	s := &Summary{MinColleges: o.minColleges, MinRanked: o.minRanked}
	names := summarizeColleges(s, collegeTable, o.top)
	summarizeCourses(s, courseTable)

	for _, check := range o.brands {
		m, err := matcher.Parse(check.Pattern)
		if err != nil {
			return nil, err
		}
		match := m.MatchFirst(names...)
		s.Brands = append(s.Brands, BrandResult{BrandCheck: check, Found: match != "", Match: match})
		if match == "" {
			s.Issues = append(s.Issues, fmt.Sprintf("%s not found", check.Label))
		}
	}
	if s.Colleges.Total < o.minColleges {
		s.Issues = append(s.Issues, fmt.Sprintf("%d colleges, expected at least %d", s.Colleges.Total, o.minColleges))
	}
	if s.Colleges.Ranked < o.minRanked {
		s.Issues = append(s.Issues, fmt.Sprintf("%d ranked colleges, expected at least %d", s.Colleges.Ranked, o.minRanked))
	}

	event := logger.Info()
	if !s.Passed() {
		event = logger.Warn().Strs("issues", s.Issues)
	}
	event.
		Int("colleges", s.Colleges.Total).
		Int("ranked", s.Colleges.Ranked).
		Int("courses", s.Courses.Total).
		Bool("passed", s.Passed()).
		Msg("Verification complete")
	return s, nil
}

func summarizeColleges(s *Summary, t *tables.Table, top int) []string {
	s.Colleges.Total = t.Len()
	s.Colleges.Columns = len(t.Header)

	names := make([]string, 0, t.Len())
	var ranked []RankedCollege
	for _, row := range t.Rows() {
		name := row.Get("College Name")
		names = append(names, name)
		if available(row.Get(export.ColNBA)) {
			s.Colleges.NBA++
		}
		if available(row.Get(export.ColNAAC)) {
			s.Colleges.NAAC++
		}
		rank, ok := parseRank(row.Get(export.ColRank))
		if !ok {
			continue
		}
		s.Colleges.Ranked++
		ranked = append(ranked, RankedCollege{
			Rank:  rank,
			Name:  name,
			City:  row.Get(export.ColCity),
			State: row.Get(export.ColState),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })
	if len(ranked) > top {
		ranked = ranked[:top]
	}
	s.TopRanked = ranked
	return names
}

func summarizeCourses(s *Summary, t *tables.Table) {
	collegeNames := make(map[string]struct{})
	courseNames := make(map[string]struct{})
	for _, row := range t.Rows() {
		collegeNames[row.Get(export.ColCollegeName)] = struct{}{}
		courseNames[row.Get(export.ColCourse)] = struct{}{}
	}
	s.Courses = CourseSummary{
		Total:          t.Len(),
		UniqueColleges: len(collegeNames),
		UniqueCourses:  len(courseNames),
	}
}

// available reports an accreditation value. Empty cells count as missing.
func available(v string) bool {
	return v != "" && v != constants.NotAvailable
}

// parseRank accepts "12" and "12.0". Empty cells are unranked.
func parseRank(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
