package cleaning

import (
	"fmt"
	"sort"
)

// Stats describes one cleaned input.
type Stats struct {
	Dataset  string `json:"dataset" yaml:"dataset"`
	Path     string `json:"path" yaml:"path"`
	Encoding string `json:"encoding" yaml:"encoding"`
	Rows     int    `json:"rows" yaml:"rows"`

	// Coerced counts cells that failed to parse and were replaced by a
	// sentinel, per column.
	Coerced map[string]int `json:"coerced,omitempty" yaml:"coerced,omitempty"`
}

func newStats(dataset, path, encoding string, rows int) Stats {
	return Stats{
		Dataset:  dataset,
		Path:     path,
		Encoding: encoding,
		Rows:     rows,
		Coerced:  make(map[string]int),
	}
}

// TotalCoerced returns the number of coerced cells across all columns.
func (s Stats) TotalCoerced() int {
	total := 0
	for _, n := range s.Coerced {
		total += n
	}
	return total
}

// String renders the stats on one line.
func (s Stats) String() string {
	out := fmt.Sprintf("%s: %d rows (%s)", s.Dataset, s.Rows, s.Encoding)
	if len(s.Coerced) == 0 {
		return out
	}
	cols := make([]string, 0, len(s.Coerced))
	for col := range s.Coerced {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	out += ", coerced:"
	for _, col := range cols {
		out += fmt.Sprintf(" %s=%d", col, s.Coerced[col])
	}
	return out
}
