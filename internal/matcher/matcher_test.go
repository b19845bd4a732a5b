package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/collegemap/internal/matcher"
)

var names = []string{
	"Indian Institute of Technology Madras",
	"IIT Bombay",
	"NIT Trichy",
	"Anna University",
	"B.M.S. College of Engineering / Bangalore",
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		patternType matcher.PatternType
		wantType    matcher.PatternType
		wantErr     bool
	}{
		{"contains", "Madras", matcher.Contains, matcher.Contains, false},
		{"glob", "IIT*", matcher.Glob, matcher.Glob, false},
		{"invalid glob", "[unclosed", matcher.Glob, matcher.Glob, true},
		{"regex", `^NIT\b`, matcher.Regex, matcher.Regex, false},
		{"invalid regex", "(unclosed", matcher.Regex, matcher.Regex, true},
		{"auto substring", "Madras", matcher.Auto, matcher.Contains, false},
		{"auto glob", "IIT *", matcher.Auto, matcher.Glob, false},
		{"auto regex", `^(IIT|NIT)\b`, matcher.Auto, matcher.Regex, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := matcher.New(tt.patternType, tt.pattern)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, m.Type())
			assert.Equal(t, tt.pattern, m.Pattern())
		})
	}
}

func TestMatchIgnoresCaseByDefault(t *testing.T) {
	m := matcher.MustNew(matcher.Contains, "madras")
	assert.True(t, m.Match("Indian Institute of Technology Madras"))

	strict := matcher.MustNew(matcher.Contains, "madras", &matcher.Options{CaseSensitive: true})
	assert.False(t, strict.Match("Indian Institute of Technology Madras"))

	re := matcher.MustNew(matcher.Regex, `^iit\b`)
	assert.Equal(t, []string{"IIT Bombay"}, re.MatchAll(names...))
}

func TestGlob(t *testing.T) {
	m := matcher.MustNew(matcher.Glob, "*college of engineering*")
	assert.Equal(t, "B.M.S. College of Engineering / Bangalore", m.MatchFirst(names...))
	assert.Equal(t, 1, m.MatchCount(names...))
	assert.Equal(t, "", matcher.MustNew(matcher.Glob, "Delhi*").MatchFirst(names...))
}

func TestParse(t *testing.T) {
	tests := []struct {
		expr string
		want matcher.PatternType
	}{
		{"glob:IIT*", matcher.Glob},
		{`re:^NIT\b`, matcher.Regex},
		{"Kharagpur", matcher.Contains},
		{"IIT*", matcher.Contains},
	}
	for _, tt := range tests {
		m, err := matcher.Parse(tt.expr)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, m.Type(), tt.expr)
	}
}

func TestMultiMatcher(t *testing.T) {
	mm, err := matcher.NewMultiMatcher("Madras", "glob:IIT *", "Kharagpur")
	require.NoError(t, err)
	assert.Equal(t, 3, mm.Len())

	assert.Equal(t, []string{"Indian Institute of Technology Madras", "IIT Bombay"}, mm.Filter(names))
	assert.Equal(t, map[string]bool{
		"Madras":    true,
		"IIT *":     true,
		"Kharagpur": false,
	}, mm.Presence(names))

	empty, err := matcher.NewMultiMatcher()
	require.NoError(t, err)
	assert.Len(t, empty.Filter(names), len(names))

	_, err = matcher.NewMultiMatcher("re:(")
	assert.Error(t, err)
}

func TestPatternTypeString(t *testing.T) {
	assert.Equal(t, "contains", matcher.Contains.String())
	assert.Equal(t, "glob", matcher.Glob.String())
	assert.Equal(t, "regex", matcher.Regex.String())
	assert.Equal(t, "auto", matcher.Auto.String())
	assert.Equal(t, "unknown", matcher.PatternType(42).String())
}
