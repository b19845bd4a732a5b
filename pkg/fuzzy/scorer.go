package fuzzy

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/hbollon/go-edlib"

	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/normalize"
)

// Scorer compares two names.
type Scorer interface {
	// Name identifies the scorer in configuration and reports.
	Name() string
	// Prepare converts a raw name into the form Compare expects.
	Prepare(s string) string
	// Compare scores two prepared names from 0 to 100.
	Compare(a, b string) int
}

// upperBounder is implemented by scorers that can cheaply bound Compare
// from above. Matching uses it to skip candidates that cannot win.
type upperBounder interface {
	UpperBound(a, b string) int
}

// Scorer names accepted by ScorerByName.
const (
	TokenSortName            = "token_sort"
	TokenSortJaroWinklerName = "token_sort_jaro_winkler"
)

var (
	// TokenSort scores sorted-token strings by their indel similarity,
	// 2*LCS/(len(a)+len(b)), scaled to 0-100.
	TokenSort Scorer = tokenSort{}

	// TokenSortJaroWinkler scores sorted-token strings by Jaro-Winkler similarity.
	TokenSortJaroWinkler Scorer = tokenSortJaroWinkler{}
)

// ScorerByName returns the scorer registered under name.
func ScorerByName(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", TokenSortName:
		return TokenSort, nil
	case TokenSortJaroWinklerName, "jaro_winkler":
		return TokenSortJaroWinkler, nil
	default:
		return nil, errors.NewValidationError("scorer", name,
			"must be one of: "+TokenSortName+", "+TokenSortJaroWinklerName)
	}
}

// Score prepares both names and compares them.
func Score(scorer Scorer, a, b string) int {
	return scorer.Compare(scorer.Prepare(a), scorer.Prepare(b))
}

var nonWord = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// Process lowercases s, folds accents, drops remaining non-ASCII characters
// and replaces punctuation with spaces.
func Process(s string) string {
	folded := normalize.Fold(s)
	ascii := strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, folded)
	return strings.ToLower(strings.TrimSpace(nonWord.ReplaceAllString(ascii, " ")))
}

// SortTokens processes s and returns its tokens sorted and space-joined.
func SortTokens(s string) string {
	tokens := strings.Fields(Process(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// PhoneticKey returns the primary Double Metaphone code of each sorted token.
// Two names with equal keys sound alike regardless of spelling and word order.
func PhoneticKey(s string) string {
	tokens := strings.Fields(SortTokens(s))
	codes := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		primary, _ := matchr.DoubleMetaphone(tok)
		if primary != "" {
			codes = append(codes, primary)
		}
	}
	return strings.Join(codes, " ")
}

type tokenSort struct{}

func (tokenSort) Name() string { return TokenSortName }

func (tokenSort) Prepare(s string) string { return SortTokens(s) }

func (tokenSort) Compare(a, b string) int {
	total := len(a) + len(b)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return percent(2*edlib.LCS(a, b), total)
}

// UpperBound bounds the LCS by the shared character counts of both strings.
func (tokenSort) UpperBound(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var ca, cb [128]int
	for i := 0; i < len(a); i++ {
		ca[a[i]&0x7f]++
	}
	for i := 0; i < len(b); i++ {
		cb[b[i]&0x7f]++
	}
	common := 0
	for i := range ca {
		common += min(ca[i], cb[i])
	}
	return percent(2*common, len(a)+len(b))
}

type tokenSortJaroWinkler struct{}

func (tokenSortJaroWinkler) Name() string { return TokenSortJaroWinklerName }

func (tokenSortJaroWinkler) Prepare(s string) string { return SortTokens(s) }

func (tokenSortJaroWinkler) Compare(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return int(math.RoundToEven(100 * matchr.JaroWinkler(a, b, false)))
}

// percent converts num/den to an integer percentage, rounding half to even.
func percent(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.RoundToEven(100 * float64(num) / float64(den)))
}
