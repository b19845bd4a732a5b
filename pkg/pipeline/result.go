package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/collegemap/internal/cleaning"
	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/courses"
	"github.com/agentstation/collegemap/pkg/linker"
)

// Result holds every count and reason produced by a run.
type Result struct {
	Inputs     []cleaning.Stats
	Ranking    *linker.Result
	Enrichment *courses.EnrichResult
	Courses    *courses.Result
	Collection *colleges.Collection
	Outputs    []string
	Duration   time.Duration
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	var b strings.Builder
	for _, s := range r.Inputs {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	b.WriteString(r.Ranking.Summary())
	b.WriteByte('\n')
	b.WriteString(r.Enrichment.Summary())
	b.WriteByte('\n')
	b.WriteString(r.Courses.Summary())
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Master collection: %d colleges, %d ranked (%s)",
		r.Collection.Len(), len(r.Collection.Ranked()), r.Duration.Round(time.Millisecond))
	return b.String()
}
