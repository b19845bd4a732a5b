package cleaning

import (
	"strconv"

	"github.com/agentstation/collegemap/internal/tables"
	"github.com/agentstation/collegemap/pkg/colleges"
)

// Directory columns, in output order.
const (
	ColCollegeName = "College Name"
	ColGenders     = "Genders Accepted"
	ColCampusSize  = "Campus Size"
	ColEnrollment  = "Total Student Enrollments"
	ColFaculty     = "Total Faculty"
	ColEstablished = "Established Year"
	ColRating      = "Rating"
	ColUniversity  = "University"
	ColCourses     = "Courses"
	ColFacilities  = "Facilities"
	ColCity        = "City"
	ColState       = "State"
	ColCountry     = "Country"
	ColCollegeType = "College Type"
	ColAverageFees = "Average Fees"
)

// Course-level columns.
const (
	ColCourseCollege  = "college name"
	ColCourse         = "Course"
	ColRegion         = "Institute Region"
	ColDistrict       = "District"
	ColAddress        = "Address"
	ColInstituteType  = "Institute Type"
	ColCategory       = "College Category"
	ColYearEstablish  = "Year of Establishment"
	ColNBA            = "NBA"
	ColNAAC           = "NAAC"
	ColNIRF           = "NIRF"
	ColWebsite        = "Website"
	ColWomenInstitute = "Women Institute"
)

// Ranking columns.
const (
	ColName = "Name"
	ColRank = "Rank"
)

// DirectoryColumns lists the known directory columns in output order.
var DirectoryColumns = []string{
	ColCollegeName, ColGenders, ColCampusSize, ColEnrollment, ColFaculty,
	ColEstablished, ColRating, ColUniversity, ColCourses, ColFacilities,
	ColCity, ColState, ColCountry, ColCollegeType, ColAverageFees,
}

// CourseColumns lists the course-level columns written to the cleaned copy.
var CourseColumns = []string{
	ColCourseCollege, ColCourse, ColRegion, ColState, ColDistrict, ColAddress,
	ColInstituteType, ColCategory, ColUniversity, ColYearEstablish,
	ColNBA, ColNAAC, ColNIRF, ColWebsite, ColWomenInstitute,
}

// RankingColumns lists the ranking columns written to the cleaned copy.
var RankingColumns = []string{ColName, ColCity, ColState, ColRank}

var directoryKeys = keySet(DirectoryColumns)

func keySet(columns []string) map[string]bool {
	keys := make(map[string]bool, len(columns))
	for _, c := range columns {
		keys[tables.Key(c)] = true
	}
	return keys
}

// DirectoryRecord renders the directory columns of a college followed by
// the given extra columns.
func DirectoryRecord(c *colleges.College, extra []string) []string {
	record := []string{
		c.Name,
		c.Genders,
		c.CampusSize,
		strconv.Itoa(c.Enrollment),
		strconv.Itoa(c.Faculty),
		strconv.Itoa(c.Established),
		strconv.FormatFloat(c.Rating, 'f', -1, 64),
		c.University,
		c.Courses,
		c.Facilities,
		c.City,
		c.State,
		c.Country,
		c.CollegeType,
		c.Fee.String(),
	}
	for _, col := range extra {
		record = append(record, c.Extra[col])
	}
	return record
}

// CourseRecord renders a cleaned course row.
func CourseRecord(r colleges.CourseRow) []string {
	return []string{
		r.CollegeName, r.Course, r.Region, r.State, r.District, r.Address,
		r.InstituteType, r.Category, r.University, strconv.Itoa(r.Established),
		r.NBA, r.NAAC, r.RankingStatus, r.Website, r.WomenInstitute,
	}
}

// RankingRecord renders a cleaned ranking entry.
func RankingRecord(e colleges.RankingEntry) []string {
	return []string{e.Name, e.City, e.State, strconv.Itoa(e.Rank)}
}
