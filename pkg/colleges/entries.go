package colleges

// RankingEntry is one row of the national ranking list.
type RankingEntry struct {
	Name  string `yaml:"name"`
	City  string `yaml:"city"`
	State string `yaml:"state"`
	Rank  int    `yaml:"rank"` // constants.WorstRank when unranked or malformed
	Row   int    `yaml:"row"`  // 1-based data row in the input file
}

// CourseRow is one row of the course-level listing.
type CourseRow struct {
	CollegeName    string
	Course         string
	Region         string
	State          string
	District       string
	Address        string
	InstituteType  string
	Category       string
	University     string
	Website        string
	NBA            string
	NAAC           string
	RankingStatus  string
	WomenInstitute string
	Established    int
	Row            int // 1-based data row in the input file
}

// CourseEntry is a course linked to a master college, with a snapshot of
// the college taken when the entry was projected. Entries are derived on
// every run and never mutated.
type CourseEntry struct {
	CollegeID     string  `yaml:"college_id"`
	CollegeName   string  `yaml:"college_name"`
	Course        string  `yaml:"course"`
	City          string  `yaml:"city"`
	State         string  `yaml:"state"`
	University    string  `yaml:"university"`
	Fee           Fee     `yaml:"average_fee"`
	Rating        float64 `yaml:"rating"`
	Rank          *int    `yaml:"rank,omitempty"`
	InstituteType string  `yaml:"institute_type"`
	NBA           string  `yaml:"nba"`
	NAAC          string  `yaml:"naac"`
	Website       string  `yaml:"website"`
	SourceName    string  `yaml:"source_name"` // raw college name from the course row
	Score         int     `yaml:"score"`
}

// Snapshot projects a course entry from a college and a course row.
func Snapshot(c *College, row CourseRow, score int) CourseEntry {
	var rank *int
	if c.Rank != nil {
		r := *c.Rank
		rank = &r
	}
	return CourseEntry{
		CollegeID:     c.ID,
		CollegeName:   c.Name,
		Course:        row.Course,
		City:          c.City,
		State:         c.State,
		University:    c.University,
		Fee:           c.Fee,
		Rating:        c.Rating,
		Rank:          rank,
		InstituteType: c.InstituteType,
		NBA:           c.NBA,
		NAAC:          c.NAAC,
		Website:       c.Website,
		SourceName:    row.CollegeName,
		Score:         score,
	}
}
