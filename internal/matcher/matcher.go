// Package matcher selects college names with substring, glob or regex
// patterns. It backs the brand-presence checks of the verify command and
// the candidate filter of the match command.
package matcher

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Contains matches names that contain the pattern.
	Contains PatternType = iota
	// Glob uses shell-style glob patterns (*, ?, []) against the whole name.
	Glob
	// Regex uses regular expressions.
	Regex
	// Auto detects the pattern type.
	Auto
)

// Matcher matches college names against one pattern.
type Matcher interface {
	// Match checks if the name matches the pattern.
	Match(name string) bool
	// MatchAll returns the matching names in input order.
	MatchAll(names ...string) []string
	// MatchFirst returns the first matching name or empty string.
	MatchFirst(names ...string) string
	// MatchCount returns the number of matching names.
	MatchCount(names ...string) int
	// Pattern returns the original pattern string.
	Pattern() string
	// Type returns the pattern type being used.
	Type() PatternType
}

// Options configures the matcher behavior.
type Options struct {
	// CaseSensitive disables the default case folding.
	CaseSensitive bool
}

type matcher struct {
	pattern     string
	patternType PatternType
	folded      string
	compiled    *regexp.Regexp
	fold        bool
}

// New creates a Matcher. Matching ignores case unless opts says otherwise.
func New(patternType PatternType, pattern string, opts ...*Options) (Matcher, error) {
	fold := true
	if len(opts) > 0 && opts[0] != nil {
		fold = !opts[0].CaseSensitive
	}
	if patternType == Auto {
		patternType = detectPatternType(pattern)
	}

	m := &matcher{pattern: pattern, patternType: patternType, fold: fold}
	if err := m.compile(); err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", pattern, err)
	}
	return m, nil
}

// MustNew creates a new Matcher and panics if there's an error.
func MustNew(patternType PatternType, pattern string, opts ...*Options) Matcher {
	m, err := New(patternType, pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Parse creates a Matcher from a prefixed expression: "glob:IIT*",
// "re:^NIT\b" or a bare substring such as "Madras".
func Parse(expr string) (Matcher, error) {
	switch {
	case strings.HasPrefix(expr, "glob:"):
		return New(Glob, strings.TrimPrefix(expr, "glob:"))
	case strings.HasPrefix(expr, "re:"):
		return New(Regex, strings.TrimPrefix(expr, "re:"))
	default:
		return New(Contains, expr)
	}
}

func (m *matcher) compile() error {
	switch m.patternType {
	case Contains:
		m.folded = m.foldCase(m.pattern)
	case Glob:
		m.folded = m.foldCase(m.pattern)
		if _, err := filepath.Match(m.folded, ""); err != nil {
			return fmt.Errorf("invalid glob pattern: %w", err)
		}
	case Regex:
		pattern := m.pattern
		if m.fold && !strings.HasPrefix(pattern, "(?i)") {
			pattern = "(?i)" + pattern
		}
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		m.compiled = compiled
	default:
		return fmt.Errorf("unsupported pattern type: %v", m.patternType)
	}
	return nil
}

func (m *matcher) foldCase(s string) string {
	if m.fold {
		return strings.ToLower(s)
	}
	return s
}

// Match checks if the name matches the pattern.
func (m *matcher) Match(name string) bool {
	switch m.patternType {
	case Contains:
		return strings.Contains(m.foldCase(name), m.folded)
	case Glob:
		// Names may contain '/', which filepath.Match treats as a separator.
		matched, _ := filepath.Match(m.folded, strings.ReplaceAll(m.foldCase(name), "/", " "))
		return matched
	case Regex:
		return m.compiled.MatchString(name)
	default:
		return false
	}
}

// MatchAll returns the matching names in input order.
func (m *matcher) MatchAll(names ...string) []string {
	results := make([]string, 0)
	for _, name := range names {
		if m.Match(name) {
			results = append(results, name)
		}
	}
	return results
}

// MatchFirst returns the first matching name or empty string.
func (m *matcher) MatchFirst(names ...string) string {
	for _, name := range names {
		if m.Match(name) {
			return name
		}
	}
	return ""
}

// MatchCount returns the number of matching names.
func (m *matcher) MatchCount(names ...string) int {
	count := 0
	for _, name := range names {
		if m.Match(name) {
			count++
		}
	}
	return count
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Type returns the pattern type being used.
func (m *matcher) Type() PatternType {
	return m.patternType
}

// detectPatternType attempts to detect if a pattern is a regex, a glob or
// a plain substring.
func detectPatternType(pattern string) PatternType {
	regexIndicators := []string{
		"^", "$", "\\b", "\\d", "\\w", "\\s",
		"(?:", "(?i)", "{", "}", "+", "|", "(", ")",
	}
	for _, indicator := range regexIndicators {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	if strings.ContainsAny(pattern, "*?[]") {
		return Glob
	}
	return Contains
}

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Contains:
		return "contains"
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// MultiMatcher matches a name against several patterns.
type MultiMatcher struct {
	matchers []Matcher
}

// NewMultiMatcher parses each expression with Parse.
func NewMultiMatcher(exprs ...string) (*MultiMatcher, error) {
	mm := &MultiMatcher{matchers: make([]Matcher, 0, len(exprs))}
	for _, expr := range exprs {
		m, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		mm.matchers = append(mm.matchers, m)
	}
	return mm, nil
}

// Len returns the number of patterns.
func (mm *MultiMatcher) Len() int {
	return len(mm.matchers)
}

// Match returns true if any pattern matches. An empty MultiMatcher
// matches everything.
func (mm *MultiMatcher) Match(name string) bool {
	if len(mm.matchers) == 0 {
		return true
	}
	for _, m := range mm.matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

// Filter returns the names matching any pattern, in input order.
func (mm *MultiMatcher) Filter(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if mm.Match(name) {
			out = append(out, name)
		}
	}
	return out
}

// Presence reports, per pattern, whether any name matches it.
func (mm *MultiMatcher) Presence(names []string) map[string]bool {
	found := make(map[string]bool, len(mm.matchers))
	for _, m := range mm.matchers {
		found[m.Pattern()] = m.MatchFirst(names...) != ""
	}
	return found
}
