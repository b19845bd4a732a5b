package colleges

import "sort"

// Collection is the ordered master collection with a name index.
// It is not safe for concurrent mutation; the pipeline gives one stage
// exclusive write access at a time.
type Collection struct {
	records []*College
	byID    map[string]*College
	byName  map[string][]*College
	names   []string
}

// NewCollection builds a collection from records in order.
func NewCollection(records ...*College) *Collection {
	c := &Collection{
		byID:   make(map[string]*College, len(records)),
		byName: make(map[string][]*College, len(records)),
	}
	for _, r := range records {
		c.Add(r)
	}
	return c
}

// Add appends a record and indexes it. It reports whether the record's
// name was not previously present in the collection.
func (c *Collection) Add(r *College) bool {
	c.records = append(c.records, r)
	c.byID[r.ID] = r
	existing, seen := c.byName[r.Name]
	c.byName[r.Name] = append(existing, r)
	if !seen {
		c.names = append(c.names, r.Name)
	}
	return !seen
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// All returns the records in collection order. The slice is a copy; the
// records are shared.
func (c *Collection) All() []*College {
	return append([]*College(nil), c.records...)
}

// Get returns the record with the given ID.
func (c *Collection) Get(id string) (*College, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// ByName returns every record whose name equals name exactly, in collection order.
func (c *Collection) ByName(name string) []*College {
	return append([]*College(nil), c.byName[name]...)
}

// First returns the first record (in collection order) with the exact name.
func (c *Collection) First(name string) (*College, bool) {
	group := c.byName[name]
	if len(group) == 0 {
		return nil, false
	}
	return group[0], true
}

// Names returns the distinct names in first-seen order.
func (c *Collection) Names() []string {
	return append([]string(nil), c.names...)
}

// DuplicateNames counts records whose name was already used by an
// earlier record. Shared names are expected for multi-campus brands.
func (c *Collection) DuplicateNames() int {
	return len(c.records) - len(c.names)
}

// Ranked returns the ranked records ordered by rank, then collection order.
func (c *Collection) Ranked() []*College {
	var ranked []*College
	for _, r := range c.records {
		if r.Rank != nil {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Rank < *ranked[j].Rank
	})
	return ranked
}

// CountSource counts records whose provenance contains the tag.
func (c *Collection) CountSource(tag string) int {
	n := 0
	for _, r := range c.records {
		if r.Sources.Has(tag) {
			n++
		}
	}
	return n
}
