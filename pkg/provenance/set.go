package provenance

import "strings"

// Set is the ordered set of source tags that contributed to a record.
// Tags keep first-seen order and are only ever added, never removed.
type Set struct {
	tags []string
}

// NewSet creates a set seeded with the given tags (duplicates ignored).
func NewSet(tags ...string) Set {
	var s Set
	for _, tag := range tags {
		s.Add(tag)
	}
	return s
}

// Add unions a tag into the set. It reports whether the tag was new;
// adding an already-present or empty tag is a no-op.
func (s *Set) Add(tag string) bool {
	if tag == "" || s.Has(tag) {
		return false
	}
	s.tags = append(s.tags, tag)
	return true
}

// Union adds every tag of other, preserving other's order for new tags.
func (s *Set) Union(other Set) {
	for _, tag := range other.tags {
		s.Add(tag)
	}
}

// Has reports whether the tag is present.
func (s Set) Has(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Len returns the number of tags.
func (s Set) Len() int {
	return len(s.tags)
}

// Tags returns a copy of the tags in first-seen order.
func (s Set) Tags() []string {
	return append([]string(nil), s.tags...)
}

// String returns the comma-joined tags in first-seen order.
func (s Set) String() string {
	return strings.Join(s.tags, ",")
}

// ParseSet reads a comma-joined tag list as written by String.
func ParseSet(value string) Set {
	var s Set
	for _, tag := range strings.Split(value, ",") {
		s.Add(strings.TrimSpace(tag))
	}
	return s
}

// MarshalYAML renders the set as a plain list.
func (s Set) MarshalYAML() (any, error) {
	return s.Tags(), nil
}
