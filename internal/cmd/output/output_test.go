package output_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/collegemap/internal/cmd/output"
	"github.com/agentstation/collegemap/pkg/errors"
)

type summary struct {
	UniqueCourses int    `json:"unique_courses"`
	Name          string `json:"name"`
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", ""} {
		_, err := output.ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := output.ParseFormat("wide")
	assert.True(t, errors.IsValidationError(err))
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	data := output.Data{
		Headers:         []string{"Rank", "Name"},
		Rows:            [][]string{{"1", "IIT Madras"}},
		ColumnAlignment: []output.Align{output.AlignRight, output.AlignLeft},
	}
	require.NoError(t, output.Print(&buf, "table", data, nil))
	assert.Contains(t, buf.String(), "IIT Madras")
}

func TestPrintRaw(t *testing.T) {
	var buf bytes.Buffer
	raw := []summary{{UniqueCourses: 3, Name: "x"}}
	require.NoError(t, output.Print(&buf, "json", output.Data{}, raw))

	var decoded []summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, raw, decoded)

	buf.Reset()
	require.NoError(t, output.Print(&buf, "yaml", output.Data{}, raw))
	assert.Contains(t, buf.String(), "unique_courses: 3")
}

func TestPrintAnyStructTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.PrintAny(&buf, "table", summary{UniqueCourses: 3, Name: "x"}))
	out := buf.String()
	assert.Contains(t, out, "Unique Courses")
	assert.Contains(t, out, "3")

	buf.Reset()
	require.NoError(t, output.PrintAny(&buf, "table", []summary{{UniqueCourses: 7, Name: "y"}}))
	assert.Contains(t, buf.String(), "7")
}

type rankedRow struct {
	Name    string   `json:"name"`
	Rank    *int     `json:"rank,omitempty"`
	Sources []string `json:"sources"`
	Notes   string   `json:"-"`
}

func TestPrintAnyTableCells(t *testing.T) {
	rank := 4
	rows := []rankedRow{
		{Name: "Alpha College", Rank: &rank, Sources: []string{"directory", "ranking"}, Notes: "hidden"},
		{Name: "Beta College", Sources: []string{"ranking"}},
	}

	var buf bytes.Buffer
	require.NoError(t, output.PrintAny(&buf, "table", rows))
	out := buf.String()
	assert.Contains(t, out, "directory, ranking")
	assert.Contains(t, out, "4")
	assert.NotContains(t, out, "0x")
	assert.NotContains(t, out, "<nil>")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "Notes")
}

func TestParseFormatNormalizes(t *testing.T) {
	format, err := output.ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, output.FormatYAML, format)
}
