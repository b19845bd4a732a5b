// Package constants provides shared constants used throughout the collegemap codebase.
// This includes match thresholds, sentinels, source tags, default file names and
// file permissions that should be consistent across the application.
package constants

// Threshold constants define the default fuzzy acceptance policy.
const (
	// RankingThreshold is the minimum fuzzy score for merging a ranking entry
	// into an existing college
	RankingThreshold = 95

	// CourseThreshold is the minimum fuzzy score for attributing a course row
	// (and its metadata) to a master college
	CourseThreshold = 80

	// MaxScore is the score of an exact match
	MaxScore = 100
)

// Sentinel values stand in for absent or invalid input.
const (
	// WorstRank replaces unranked or malformed rank values
	WorstRank = 999

	// NotAvailable is the default for missing text fields
	NotAvailable = "Not Available"

	// UnknownCollege replaces an empty college name
	UnknownCollege = "Unknown College"

	// NotSpecified replaces an empty course name
	NotSpecified = "Not Specified"

	// DefaultCountry is assigned to colleges that only appear in the ranking list
	DefaultCountry = "India"
)

// Source tags recorded in a college's provenance set.
const (
	// SourceDirectory tags records from the general college directory
	SourceDirectory = "directory"

	// SourceCourses tags records enriched from the course-level table
	SourceCourses = "courses"

	// SourceRanking tags records touched by the national ranking list
	SourceRanking = "ranking"
)

// Default input and output file names.
const (
	// DefaultDataDir is where inputs are read from and outputs are written to
	DefaultDataDir = "data"

	// DirectoryFile is the general college directory
	DirectoryFile = "engineering colleges in India.csv"

	// CoursesFile is the course-level listing
	CoursesFile = "Engineering.csv"

	// RankingsFile is the national ranking list
	RankingsFile = "NIRF Ranking for Engineering Colleges 2024.csv"

	// MasterCollegesFile is the merged college table
	MasterCollegesFile = "master_colleges.csv"

	// MasterCoursesFile is the derived per-course table
	MasterCoursesFile = "master_courses.csv"

	// ReportFile is the optional YAML run report
	ReportFile = "report.yaml"

	// SQLiteFile is the optional SQLite snapshot
	SQLiteFile = "collegemap.db"

	// ProvenanceFile is the optional per-field provenance log
	ProvenanceFile = "provenance.yaml"

	// CleanedPrefix is prepended to cleaned copies of the inputs
	CleanedPrefix = "cleaned_"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// TopRankedCount is how many ranked colleges the summary reports list.
const TopRankedCount = 10
