package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/collegemap/internal/cleaning"
	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/courses"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/linker"
)

// Report is the YAML run report.
type Report struct {
	GeneratedAt time.Time             `yaml:"generated_at"`
	Settings    ReportSettings        `yaml:"settings"`
	Inputs      []cleaning.Stats      `yaml:"inputs"`
	Totals      Totals                `yaml:"totals"`
	Ranking     RankingSection        `yaml:"ranking"`
	Enrichment  *courses.EnrichResult `yaml:"enrichment"`
	Courses     CourseSection         `yaml:"courses"`
	TopRanked   []RankedCollege       `yaml:"top_ranked"`
	Outputs     []string              `yaml:"outputs"`
}

// ReportSettings records the thresholds and scorer of the run.
type ReportSettings struct {
	RankingThreshold int    `yaml:"ranking_threshold"`
	CourseThreshold  int    `yaml:"course_threshold"`
	Scorer           string `yaml:"scorer"`
}

// Totals summarizes the master collection.
type Totals struct {
	Colleges       int            `yaml:"colleges"`
	Ranked         int            `yaml:"ranked"`
	DuplicateNames int            `yaml:"duplicate_names"`
	BySource       map[string]int `yaml:"by_source"`
}

// RankingSection reports the ranking link pass.
type RankingSection struct {
	Stats      linker.Stats     `yaml:"stats"`
	Overwrites []linker.Outcome `yaml:"overwrites,omitempty"`
	Inserted   []linker.Outcome `yaml:"inserted,omitempty"`
}

// CourseSection reports the course link pass.
type CourseSection struct {
	Total    int                        `yaml:"total"`
	Linked   int                        `yaml:"linked"`
	Dropped  int                        `yaml:"dropped"`
	ByReason map[courses.DropReason]int `yaml:"by_reason,omitempty"`
	Drops    []courses.Drop             `yaml:"drops,omitempty"`
}

// RankedCollege is one line of the top-ranked list.
type RankedCollege struct {
	Rank    int    `yaml:"rank" json:"rank"`
	Name    string `yaml:"name" json:"name"`
	City    string `yaml:"city" json:"city"`
	State   string `yaml:"state" json:"state"`
	Sources string `yaml:"sources" json:"sources"`
}

// NewTotals summarizes a collection.
func NewTotals(coll *colleges.Collection) Totals {
	return Totals{
		Colleges:       coll.Len(),
		Ranked:         len(coll.Ranked()),
		DuplicateNames: coll.DuplicateNames(),
		BySource: map[string]int{
			constants.SourceDirectory: coll.CountSource(constants.SourceDirectory),
			constants.SourceCourses:   coll.CountSource(constants.SourceCourses),
			constants.SourceRanking:   coll.CountSource(constants.SourceRanking),
		},
	}
}

// TopRanked lists up to n ranked colleges by rank.
func TopRanked(coll *colleges.Collection, n int) []RankedCollege {
	ranked := coll.Ranked()
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]RankedCollege, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, RankedCollege{
			Rank:    *c.Rank,
			Name:    c.Name,
			City:    c.City,
			State:   c.State,
			Sources: c.Sources.String(),
		})
	}
	return out
}

// NewCourseSection summarizes a course link result.
func NewCourseSection(res *courses.Result) CourseSection {
	return CourseSection{
		Total:    res.Total,
		Linked:   res.Linked(),
		Dropped:  len(res.Drops),
		ByReason: res.DropsByReason(),
		Drops:    res.Drops,
	}
}

// NewRankingSection summarizes a ranking link result.
func NewRankingSection(res *linker.Result) RankingSection {
	section := RankingSection{Stats: res.Stats, Overwrites: res.Overwrites()}
	for _, o := range res.Outcomes {
		if o.Kind == linker.OutcomeInserted {
			section.Inserted = append(section.Inserted, o)
		}
	}
	return section
}

// WriteReport writes the report as YAML.
func WriteReport(path string, report *Report) error {
	data, err := yaml.MarshalWithOptions(report, yaml.Indent(2))
	if err != nil {
		return errors.WrapResource("encode", "report", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
