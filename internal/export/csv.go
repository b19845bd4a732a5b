// Package export writes the pipeline outputs: the master college and course
// tables as CSV, an optional SQLite snapshot and an optional YAML run report.
package export

import (
	"strconv"

	"github.com/agentstation/collegemap/internal/cleaning"
	"github.com/agentstation/collegemap/internal/tables"
	"github.com/agentstation/collegemap/pkg/colleges"
)

// Master college columns appended after the directory columns.
const (
	ColCollegeID      = "College ID"
	ColRank           = "NIRF_Rank"
	ColRegion         = "Institute_Region"
	ColDistrict       = "District"
	ColAddress        = "Address"
	ColInstituteType  = "Institute_Type"
	ColCategory       = "College_Category"
	ColWebsite        = "Website"
	ColNBA            = "NBA_Accreditation"
	ColNAAC           = "NAAC_Accreditation"
	ColRankingStatus  = "NIRF_Status"
	ColWomenInstitute = "Women_Institute"
	ColCoursesOffered = "Courses_Offered"
	ColDataSources    = "Data_Sources"
)

// Master course columns not shared with the college table.
const (
	ColCollegeName = "College_Name"
	ColCourse      = "Course"
	ColCity        = "City"
	ColState       = "State"
	ColUniversity  = "University"
	ColAverageFees = "Average_Fees"
	ColRating      = "Rating"
	ColSourceName  = "Source_Name"
	ColMatchScore  = "Match_Score"
)

var collegeColumns = []string{
	ColCollegeID, ColRank, ColRegion, ColDistrict, ColAddress, ColInstituteType,
	ColCategory, ColWebsite, ColNBA, ColNAAC, ColRankingStatus, ColWomenInstitute,
	ColCoursesOffered, ColDataSources,
}

// CourseColumns is the header of the master course table.
var CourseColumns = []string{
	ColCollegeID, ColCollegeName, ColCourse, ColCity, ColState, ColUniversity,
	ColAverageFees, ColRating, ColRank, ColInstituteType, ColNBA, ColNAAC,
	ColWebsite, ColSourceName, ColMatchScore,
}

var mergedKeys = func() map[string]bool {
	keys := make(map[string]bool, len(collegeColumns))
	for _, col := range collegeColumns {
		keys[tables.Key(col)] = true
	}
	return keys
}()

// MasterExtras returns the extra directory columns carried into the master
// college table. Columns whose lookup key collides with a merged column, or
// with an earlier extra, are left out so every header resolves to one cell.
func MasterExtras(extra []string) []string {
	seen := make(map[string]bool, len(extra))
	out := make([]string, 0, len(extra))
	for _, col := range extra {
		key := tables.Key(col)
		if mergedKeys[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, col)
	}
	return out
}

// CollegeColumns returns the master college header: the directory columns,
// the extra directory columns, then the merged columns.
func CollegeColumns(extra []string) []string {
	extra = MasterExtras(extra)
	header := make([]string, 0, len(cleaning.DirectoryColumns)+len(extra)+len(collegeColumns))
	header = append(header, cleaning.DirectoryColumns...)
	header = append(header, extra...)
	return append(header, collegeColumns...)
}

// CollegeRecord renders a master college row matching CollegeColumns.
func CollegeRecord(c *colleges.College, extra []string) []string {
	return append(cleaning.DirectoryRecord(c, MasterExtras(extra)),
		c.ID,
		c.RankString(),
		c.Region,
		c.District,
		c.Address,
		c.InstituteType,
		c.Category,
		c.Website,
		c.NBA,
		c.NAAC,
		c.RankingStatus,
		c.WomenInstitute,
		c.CoursesOffered,
		c.Sources.String(),
	)
}

// CourseRecord renders a master course row matching CourseColumns.
func CourseRecord(e colleges.CourseEntry) []string {
	rank := ""
	if e.Rank != nil {
		rank = strconv.Itoa(*e.Rank)
	}
	return []string{
		e.CollegeID,
		e.CollegeName,
		e.Course,
		e.City,
		e.State,
		e.University,
		e.Fee.String(),
		strconv.FormatFloat(e.Rating, 'f', -1, 64),
		rank,
		e.InstituteType,
		e.NBA,
		e.NAAC,
		e.Website,
		e.SourceName,
		strconv.Itoa(e.Score),
	}
}

// WriteColleges writes the master college table.
func WriteColleges(path string, records []*colleges.College, extra []string) error {
	extra = MasterExtras(extra)
	rows := make([][]string, 0, len(records))
	for _, c := range records {
		rows = append(rows, CollegeRecord(c, extra))
	}
	return tables.Write(path, CollegeColumns(extra), rows)
}

// WriteCourses writes the master course table.
func WriteCourses(path string, entries []colleges.CourseEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, CourseRecord(e))
	}
	return tables.Write(path, CourseColumns, rows)
}
