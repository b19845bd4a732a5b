// Package cleaning loads the three raw input tables and standardizes them
// into typed records: college names and course names are normalized,
// missing text becomes "Not Available", numbers fall back to zero, fees to
// the absent marker and ranks to the worst-rank sentinel.
//
// Cells that fail to parse never abort loading. They are replaced by their
// sentinel, counted in Stats and logged at debug level.
package cleaning

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/collegemap/internal/tables"
	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/logging"
	"github.com/agentstation/collegemap/pkg/normalize"
)

// Directory is the cleaned general college directory.
type Directory struct {
	Colleges []*colleges.College

	// ExtraColumns are directory columns outside the known schema, in file order.
	ExtraColumns []string
	Stats        Stats
}

// Courses is the cleaned course-level listing.
type Courses struct {
	Rows  []colleges.CourseRow
	Stats Stats
}

// Rankings is the cleaned national ranking list.
type Rankings struct {
	Entries []colleges.RankingEntry
	Stats   Stats
}

// LoadDirectory loads the general directory. Records receive deterministic
// identifiers derived from their row.
func LoadDirectory(ctx context.Context, path string) (*Directory, error) {
	tbl, err := tables.Read(path)
	if err != nil {
		return nil, errors.WrapResource("load", constants.SourceDirectory, "", err)
	}
	if err := tbl.Require(ColCollegeName); err != nil {
		return nil, err
	}

	c := newCoercer(ctx, constants.SourceDirectory)
	dir := &Directory{
		Colleges:     make([]*colleges.College, 0, tbl.Len()),
		ExtraColumns: tbl.ExtraColumns(directoryKeys),
	}
	for _, row := range tbl.Rows() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Canceled(err)
		}
		college := colleges.New(
			colleges.DeterministicID(constants.SourceDirectory, row.Number),
			normalize.CollegeName(row.Get(ColCollegeName)),
			constants.SourceDirectory,
		)
		college.Genders = normalize.Text(row.Get(ColGenders))
		college.CampusSize = campusSize(row.Get(ColCampusSize))
		college.Enrollment = c.integer(row, ColEnrollment)
		college.Faculty = c.integer(row, ColFaculty)
		college.Established = c.integer(row, ColEstablished)
		college.Rating = c.float(row, ColRating)
		college.University = normalize.Text(row.Get(ColUniversity))
		college.Courses = normalize.CourseName(row.Get(ColCourses))
		college.CoursesOffered = college.Courses
		college.Facilities = normalize.List(row.Get(ColFacilities))
		college.City = normalize.Text(row.Get(ColCity))
		college.State = normalize.Text(row.Get(ColState))
		college.Country = normalize.Text(row.Get(ColCountry))
		college.CollegeType = normalize.Text(row.Get(ColCollegeType))
		college.Fee = c.fee(row, ColAverageFees)
		college.Extra = row.Extra(directoryKeys)
		dir.Colleges = append(dir.Colleges, college)
	}

	dir.Stats = c.stats(path, tbl)
	c.log(dir.Stats)
	return dir, nil
}

// LoadCourses loads the course-level listing, falling back to Latin-1 when
// the file is not valid UTF-8.
func LoadCourses(ctx context.Context, path string) (*Courses, error) {
	tbl, err := tables.ReadWithFallback(logging.WithFile(ctx, path), path)
	if err != nil {
		return nil, errors.WrapResource("load", constants.SourceCourses, "", err)
	}
	if err := tbl.Require(ColCourseCollege, ColCourse); err != nil {
		return nil, err
	}

	c := newCoercer(ctx, constants.SourceCourses)
	out := &Courses{Rows: make([]colleges.CourseRow, 0, tbl.Len())}
	for _, row := range tbl.Rows() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Canceled(err)
		}
		out.Rows = append(out.Rows, colleges.CourseRow{
			CollegeName:    normalize.CollegeName(row.Get(ColCourseCollege)),
			Course:         normalize.CourseName(row.Get(ColCourse)),
			Region:         normalize.Text(row.Get(ColRegion)),
			State:          normalize.Text(row.Get(ColState)),
			District:       normalize.Text(row.Get(ColDistrict)),
			Address:        normalize.Text(row.Get(ColAddress)),
			InstituteType:  normalize.Text(row.Get(ColInstituteType)),
			Category:       normalize.Text(row.Get(ColCategory)),
			University:     normalize.Text(row.Get(ColUniversity)),
			Website:        normalize.Text(row.Get(ColWebsite)),
			NBA:            normalize.Text(row.Get(ColNBA)),
			NAAC:           normalize.Text(row.Get(ColNAAC)),
			RankingStatus:  normalize.Text(row.Get(ColNIRF)),
			WomenInstitute: normalize.Text(row.Get(ColWomenInstitute)),
			Established:    c.integer(row, ColYearEstablish),
			Row:            row.Number,
		})
	}

	out.Stats = c.stats(path, tbl)
	c.log(out.Stats)
	return out, nil
}

// LoadRankings loads the national ranking list.
func LoadRankings(ctx context.Context, path string) (*Rankings, error) {
	tbl, err := tables.Read(path)
	if err != nil {
		return nil, errors.WrapResource("load", constants.SourceRanking, "", err)
	}
	if err := tbl.Require(ColName, ColRank); err != nil {
		return nil, err
	}

	c := newCoercer(ctx, constants.SourceRanking)
	out := &Rankings{Entries: make([]colleges.RankingEntry, 0, tbl.Len())}
	for _, row := range tbl.Rows() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Canceled(err)
		}
		out.Entries = append(out.Entries, colleges.RankingEntry{
			Name:  normalize.CollegeName(row.Get(ColName)),
			City:  normalize.Text(row.Get(ColCity)),
			State: normalize.Text(row.Get(ColState)),
			Rank:  c.rank(row, ColRank),
			Row:   row.Number,
		})
	}

	out.Stats = c.stats(path, tbl)
	c.log(out.Stats)
	return out, nil
}

func campusSize(s string) string {
	if normalize.IsMissing(s) {
		return "0"
	}
	return normalize.Collapse(s)
}

// coercer parses typed cells and counts the ones replaced by sentinels.
type coercer struct {
	dataset string
	logger  *zerolog.Logger
	coerced map[string]int
}

func newCoercer(ctx context.Context, dataset string) *coercer {
	return &coercer{
		dataset: dataset,
		logger:  logging.FromContext(ctx),
		coerced: make(map[string]int),
	}
}

func (c *coercer) record(row tables.Row, column string, err error) {
	if err == nil {
		return
	}
	c.coerced[column]++
	c.logger.Debug().
		Str("dataset", c.dataset).
		Int("row", row.Number).
		Str("column", column).
		Err(err).
		Msg("Coerced unparseable cell")
}

func (c *coercer) integer(row tables.Row, column string) int {
	v, err := normalize.ParseInt(row.Get(column))
	c.record(row, column, err)
	return v
}

func (c *coercer) float(row tables.Row, column string) float64 {
	v, err := normalize.ParseFloat(row.Get(column))
	c.record(row, column, err)
	return v
}

func (c *coercer) fee(row tables.Row, column string) colleges.Fee {
	v, err := normalize.ParseFee(row.Get(column))
	c.record(row, column, err)
	return v
}

func (c *coercer) rank(row tables.Row, column string) int {
	v, err := normalize.ParseRank(row.Get(column))
	c.record(row, column, err)
	return v
}

func (c *coercer) stats(path string, tbl *tables.Table) Stats {
	s := newStats(c.dataset, path, tbl.Encoding, tbl.Len())
	for col, n := range c.coerced {
		s.Coerced[col] = n
	}
	return s
}

func (c *coercer) log(s Stats) {
	c.logger.Info().
		Str("dataset", s.Dataset).
		Str("file", s.Path).
		Str("encoding", s.Encoding).
		Int("rows", s.Rows).
		Int("coerced", s.TotalCoerced()).
		Msg("Loaded input table")
}
