// Package normalize standardizes the free-text fields of the raw datasets:
// college and course names, fees, ranks, numeric columns and missing-value
// markers. Every function is total: malformed input is coerced to a
// documented sentinel instead of failing.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
)

var whitespace = regexp.MustCompile(`\s+`)

type replacement struct {
	pattern *regexp.Regexp
	value   string
}

func wordRule(word, value string) replacement {
	return replacement{
		pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`),
		value:   value,
	}
}

// collegeAbbreviations are applied in order, case-insensitively, at word boundaries.
var collegeAbbreviations = []replacement{
	wordRule("Iit", "IIT"),
	wordRule("Nit", "NIT"),
	wordRule("Iiit", "IIIT"),
	wordRule("Bits", "BITS"),
	wordRule("Vit", "VIT"),
	wordRule("Mit", "MIT"),
	wordRule("Sri ", "Sri "),
	wordRule("St ", "St. "),
	wordRule("Dr ", "Dr. "),
	wordRule("B.tech", "B.Tech"),
	wordRule("M.tech", "M.Tech"),
}

var courseAbbreviations = []replacement{
	wordRule("CSE", "Computer Science and Engineering"),
	wordRule("ECE", "Electronics and Communication Engineering"),
	wordRule("EEE", "Electrical and Electronics Engineering"),
}

var feeNoise = strings.NewReplacer("₹", "", "$", "", ",", "")

// IsMissing reports whether a raw cell carries no value.
func IsMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "-", "nan", "null", "none":
		return true
	}
	return false
}

// Collapse trims s and collapses runs of whitespace (including newlines) to one space.
func Collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// CollegeName standardizes a college name. Empty names become
// constants.UnknownCollege.
func CollegeName(s string) string {
	if IsMissing(s) {
		return constants.UnknownCollege
	}
	name := Collapse(s)
	for _, r := range collegeAbbreviations {
		name = r.pattern.ReplaceAllLiteralString(name, r.value)
	}
	return name
}

// CourseName standardizes a course name. Empty names become
// constants.NotSpecified.
func CourseName(s string) string {
	if IsMissing(s) {
		return constants.NotSpecified
	}
	course := Collapse(s)
	for _, r := range courseAbbreviations {
		course = r.pattern.ReplaceAllLiteralString(course, r.value)
	}
	return course
}

// Text returns the collapsed value, or constants.NotAvailable when missing.
func Text(s string) string {
	if IsMissing(s) {
		return constants.NotAvailable
	}
	return Collapse(s)
}

// List joins a multi-line cell into a comma-separated list.
func List(s string) string {
	if IsMissing(s) {
		return constants.NotAvailable
	}
	parts := strings.Split(strings.ReplaceAll(s, "\r", ""), "\n")
	kept := parts[:0]
	for _, p := range parts {
		if p = Collapse(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// ParseFee parses a fee cell. Currency symbols and thousands separators
// are stripped. Missing cells yield the absent fee without an error.
func ParseFee(s string) (colleges.Fee, error) {
	if IsMissing(s) {
		return colleges.NoFee, nil
	}
	cleaned := strings.TrimSpace(feeNoise.Replace(strings.TrimSpace(s)))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return colleges.NoFee, errors.NewParseError("fee", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return colleges.NoFee, errors.NewParseError("fee", s, nil)
	}
	return colleges.NewFee(v), nil
}

// Fee parses a fee cell, mapping every failure to the absent fee.
func Fee(s string) colleges.Fee {
	fee, _ := ParseFee(s)
	return fee
}

// ParseRank parses a rank cell. Whole-number floats such as "12.0" are
// accepted; fractions, non-positive values and values above math.MaxInt32
// are errors.
func ParseRank(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return constants.WorstRank, errors.NewParseError("rank", s, err)
	}
	if math.IsNaN(v) || v < 1 || v > math.MaxInt32 || v != math.Trunc(v) {
		return constants.WorstRank, errors.NewParseError("rank", s, nil)
	}
	return int(v), nil
}

// Rank parses a rank cell, mapping every failure to constants.WorstRank.
func Rank(s string) int {
	rank, _ := ParseRank(s)
	return rank
}

// ParseInt parses an integer cell, truncating decimals. Values outside the
// int32 range are errors.
func ParseInt(s string) (int, error) {
	v, err := ParseFloat(s)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, errors.NewParseError("number", s, nil)
	}
	return int(v), nil
}

// Int parses an integer cell with a zero fallback.
func Int(s string) int {
	v, _ := ParseInt(s)
	return v
}

// ParseFloat parses a numeric cell. Missing cells are zero without an error.
func ParseFloat(s string) (float64, error) {
	if IsMissing(s) {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(feeNoise.Replace(s)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.NewParseError("number", s, err)
	}
	return v, nil
}

// Float parses a numeric cell with a zero fallback.
func Float(s string) float64 {
	v, _ := ParseFloat(s)
	return v
}

// Fold strips combining marks so that accented and unaccented spellings compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
