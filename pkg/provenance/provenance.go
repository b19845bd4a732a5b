// Package provenance tracks where the values of a merged college record came from.
// A Set records which source datasets contributed to a record; a Tracker keeps
// field-level history for values written during linking and enrichment.
package provenance

import (
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
)

// Provenance records a single write to a field of a college record.
type Provenance struct {
	Source        string `yaml:"source"`                   // Source tag that provided the value
	Field         string `yaml:"field"`                    // Field name, e.g. "rank" or "website"
	Value         any    `yaml:"value"`                    // The value written
	PreviousValue any    `yaml:"previous_value,omitempty"` // Value before the write, if any
	Score         int    `yaml:"score,omitempty"`          // Fuzzy score of the match that caused the write
	Reason        string `yaml:"reason,omitempty"`         // Match tag or rule that caused the write
}

// Map is field history keyed by college ID, then field name.
type Map map[string]map[string][]Provenance

// Tracker manages field-level provenance during a pipeline run.
type Tracker interface {
	// Track records a write to a field of a college.
	Track(collegeID string, history Provenance)

	// FindByField returns the history of one field of a college.
	FindByField(collegeID, field string) []Provenance

	// FindByCollege returns all field history of a college.
	FindByCollege(collegeID string) map[string][]Provenance

	// Map returns a copy of the complete provenance map.
	Map() Map

	// Len returns the number of tracked writes.
	Len() int
}

// tracker is the default implementation.
type tracker struct {
	provenance Map
	enabled    bool
	count      int
}

// NewTracker creates a new provenance tracker. A disabled tracker
// accepts writes and discards them.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

// Track records a write to a field of a college.
func (p *tracker) Track(collegeID string, history Provenance) {
	if !p.enabled {
		return
	}
	fields, ok := p.provenance[collegeID]
	if !ok {
		fields = make(map[string][]Provenance)
		p.provenance[collegeID] = fields
	}
	fields[history.Field] = append(fields[history.Field], history)
	p.count++
}

// FindByField returns the history of one field of a college.
func (p *tracker) FindByField(collegeID, field string) []Provenance {
	return p.provenance[collegeID][field]
}

// FindByCollege returns all field history of a college.
func (p *tracker) FindByCollege(collegeID string) map[string][]Provenance {
	return p.provenance[collegeID]
}

// Map returns a copy of the complete provenance map.
func (p *tracker) Map() Map {
	result := make(Map, len(p.provenance))
	for id, fields := range p.provenance {
		copied := make(map[string][]Provenance, len(fields))
		for field, history := range fields {
			copied[field] = append([]Provenance(nil), history...)
		}
		result[id] = copied
	}
	return result
}

// Len returns the number of tracked writes.
func (p *tracker) Len() int {
	return p.count
}

// Fields returns the distinct field names present in the map, sorted.
func (m Map) Fields() []string {
	seen := make(map[string]bool)
	for _, fields := range m {
		for field := range fields {
			seen[field] = true
		}
	}
	out := make([]string, 0, len(seen))
	for field := range seen {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// File is the on-disk form of a provenance map.
type File struct {
	Provenance Map `yaml:"provenance"`
}

// Save writes the map as YAML to path.
func Save(path string, m Map) error {
	data, err := yaml.MarshalWithOptions(File{Provenance: m}, yaml.Indent(2))
	if err != nil {
		return errors.WrapResource("encode", "provenance", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
