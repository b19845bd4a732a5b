package colleges

import (
	"strconv"

	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/provenance"
)

// College is a master college record.
//
// Name is a matching attribute and must not change once the record has been
// added to a Collection, because the collection indexes records by name.
type College struct {
	ID string `yaml:"id"`

	Name    string `yaml:"name"`
	City    string `yaml:"city"`
	State   string `yaml:"state"`
	Country string `yaml:"country"`

	// Directory metadata
	Genders     string  `yaml:"genders"`
	CampusSize  string  `yaml:"campus_size"`
	Enrollment  int     `yaml:"enrollment"`
	Faculty     int     `yaml:"faculty"`
	Established int     `yaml:"established"`
	Rating      float64 `yaml:"rating"`
	University  string  `yaml:"university"`
	Courses     string  `yaml:"courses"`
	Facilities  string  `yaml:"facilities"`
	CollegeType string  `yaml:"college_type"`
	Fee         Fee     `yaml:"average_fee"`

	// Rank is nil until a ranking entry is linked to the record.
	Rank *int `yaml:"rank,omitempty"`

	// Course-level metadata, filled by enrichment
	Region         string `yaml:"region"`
	District       string `yaml:"district"`
	Address        string `yaml:"address"`
	InstituteType  string `yaml:"institute_type"`
	Category       string `yaml:"category"`
	Website        string `yaml:"website"`
	NBA            string `yaml:"nba"`
	NAAC           string `yaml:"naac"`
	RankingStatus  string `yaml:"ranking_status"`
	WomenInstitute string `yaml:"women_institute"`
	CoursesOffered string `yaml:"courses_offered"`

	// Sources is the provenance set. It is never empty once the record
	// has been created through New or FromRanking.
	Sources provenance.Set `yaml:"sources"`

	// Extra holds directory columns outside the known schema.
	Extra map[string]string `yaml:"extra,omitempty"`
}

// New creates a record with every metadata field at its "not available"
// default, numeric fields at zero and the fee absent.
func New(id, name, source string) *College {
	na := constants.NotAvailable
	return &College{
		ID:             id,
		Name:           name,
		City:           na,
		State:          na,
		Country:        na,
		Genders:        na,
		CampusSize:     "0",
		University:     na,
		Courses:        na,
		Facilities:     na,
		CollegeType:    na,
		Fee:            NoFee,
		Region:         na,
		District:       na,
		Address:        na,
		InstituteType:  na,
		Category:       na,
		Website:        na,
		NBA:            na,
		NAAC:           na,
		RankingStatus:  na,
		WomenInstitute: na,
		CoursesOffered: na,
		Sources:        provenance.NewSet(source),
	}
}

// FromRanking seeds a new record from an unmatched ranking entry.
func FromRanking(id string, entry RankingEntry, source string) *College {
	c := New(id, entry.Name, source)
	c.City = orNotAvailable(entry.City)
	c.State = orNotAvailable(entry.State)
	c.Country = constants.DefaultCountry
	rank := entry.Rank
	c.Rank = &rank
	return c
}

// SetRank overwrites the rank and returns the previous value, if any.
func (c *College) SetRank(rank int) (previous *int) {
	previous = c.Rank
	c.Rank = &rank
	return previous
}

// RankValue returns the rank and whether the record is ranked.
func (c *College) RankValue() (int, bool) {
	if c.Rank == nil {
		return 0, false
	}
	return *c.Rank, true
}

// RankString renders the rank for tabular output: empty when unranked.
func (c *College) RankString() string {
	if c.Rank == nil {
		return ""
	}
	return strconv.Itoa(*c.Rank)
}

// IsAvailable reports whether a text value carries information.
func IsAvailable(value string) bool {
	return value != "" && value != constants.NotAvailable
}

func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}
	return value
}
