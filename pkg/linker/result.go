package linker

import (
	"fmt"
	"time"

	"github.com/agentstation/collegemap/pkg/colleges"
)

// Kind classifies how a ranking entry was linked.
type Kind string

// Outcome kinds. The first four are accepted matches, in decreasing confidence.
const (
	OutcomeExact     Kind = "exact"
	OutcomeNameCity  Kind = "name+city"
	OutcomeNameState Kind = "name+state"
	OutcomeNameOnly  Kind = "name_only"
	OutcomeInserted  Kind = "inserted"
)

// Outcome is the linking decision for one ranking entry.
type Outcome struct {
	Entry colleges.RankingEntry `json:"entry" yaml:"entry"`
	Kind  Kind                  `json:"kind" yaml:"kind"`

	// CollegeID and CollegeName identify the updated or inserted record.
	CollegeID   string `json:"college_id" yaml:"college_id"`
	CollegeName string `json:"college_name" yaml:"college_name"`

	// Candidate is the best fuzzy candidate, also reported for inserts.
	Candidate string `json:"candidate,omitempty" yaml:"candidate,omitempty"`
	Score     int    `json:"score" yaml:"score"`

	// PreviousRank is set when the match overwrote an existing rank.
	PreviousRank *int `json:"previous_rank,omitempty" yaml:"previous_rank,omitempty"`

	// PhoneticAgree reports whether a fuzzy match also sounds alike.
	// It is diagnostic only.
	PhoneticAgree bool `json:"phonetic_agree,omitempty" yaml:"phonetic_agree,omitempty"`
}

// Matched reports whether the entry was merged into an existing record.
func (o Outcome) Matched() bool {
	return o.Kind != OutcomeInserted
}

// Overwritten reports whether the match replaced an earlier rank.
func (o Outcome) Overwritten() bool {
	return o.PreviousRank != nil
}

// Stats counts outcomes by kind.
type Stats struct {
	Processed   int `json:"processed" yaml:"processed"`
	Exact       int `json:"exact" yaml:"exact"`
	NameCity    int `json:"name_city" yaml:"name_city"`
	NameState   int `json:"name_state" yaml:"name_state"`
	NameOnly    int `json:"name_only" yaml:"name_only"`
	Inserted    int `json:"inserted" yaml:"inserted"`
	Overwritten int `json:"overwritten" yaml:"overwritten"`
}

// Matched returns the number of entries merged into existing records.
func (s Stats) Matched() int {
	return s.Exact + s.NameCity + s.NameState + s.NameOnly
}

func (s *Stats) record(o Outcome) {
	s.Processed++
	switch o.Kind {
	case OutcomeExact:
		s.Exact++
	case OutcomeNameCity:
		s.NameCity++
	case OutcomeNameState:
		s.NameState++
	case OutcomeNameOnly:
		s.NameOnly++
	case OutcomeInserted:
		s.Inserted++
	}
	if o.Overwritten() {
		s.Overwritten++
	}
}

// Result is the outcome of a linking pass.
type Result struct {
	Outcomes []Outcome     `json:"outcomes" yaml:"outcomes"`
	Stats    Stats         `json:"stats" yaml:"stats"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Stats
	summary := fmt.Sprintf("Linked %d ranking entries: %d exact, %d name+city, %d name+state, %d name_only, %d inserted",
		s.Processed, s.Exact, s.NameCity, s.NameState, s.NameOnly, s.Inserted)
	if s.Overwritten > 0 {
		summary += fmt.Sprintf(" (%d ranks overwritten)", s.Overwritten)
	}
	return summary
}

// Overwrites returns the outcomes that replaced an earlier rank.
func (r *Result) Overwrites() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Overwritten() {
			out = append(out, o)
		}
	}
	return out
}
