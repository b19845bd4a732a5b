package tables_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/collegemap/internal/tables"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/logging"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestKey(t *testing.T) {
	assert.Equal(t, "collegename", tables.Key("College Name"))
	assert.Equal(t, "collegename", tables.Key(" college_name "))
	assert.Equal(t, "nirfrank", tables.Key("NIRF_Rank"))
}

func TestReadHeaderLookup(t *testing.T) {
	path := writeFile(t, "dir.csv", []byte("\xEF\xBB\xBFCollege Name, City ,Notes\n\"IIT Madras\",Chennai,\"a, b\"\nShort\n"))
	tbl, err := tables.Read(path)
	require.NoError(t, err)

	assert.Equal(t, tables.UTF8, tbl.Encoding)
	assert.Equal(t, []string{"College Name", "City", "Notes"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Has("college_name"))
	assert.False(t, tbl.Has("State"))

	first := tbl.Row(0)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "IIT Madras", first.Get("college name"))
	assert.Equal(t, "Chennai", first.Get("State", "CITY"))
	assert.Equal(t, "a, b", first.Get("notes"))
	assert.Equal(t, "", first.Get("State"))

	short := tbl.Row(1)
	assert.Equal(t, "Short", short.Get("College Name"))
	assert.Equal(t, "", short.Get("City"))

	known := map[string]bool{tables.Key("College Name"): true, tables.Key("City"): true}
	assert.Equal(t, []string{"Notes"}, tbl.ExtraColumns(known))
	assert.Equal(t, map[string]string{"Notes": "a, b"}, first.Extra(known))
	assert.Equal(t, map[string]string{"Notes": ""}, short.Extra(known))
}

func TestRequire(t *testing.T) {
	path := writeFile(t, "rank.csv", []byte("Name,Rank\nIIT Madras,1\n"))
	tbl, err := tables.Read(path)
	require.NoError(t, err)

	assert.NoError(t, tbl.Require("name", "Rank"))
	assert.NoError(t, tbl.Require("College Name|Name"))

	err = tbl.Require("Name", "City")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "rank.csv")
}

func TestReadMissingFile(t *testing.T) {
	_, err := tables.Read(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Operation)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadEmptyFile(t *testing.T) {
	_, err := tables.Read(writeFile(t, "empty.csv", nil))
	assert.True(t, errors.IsValidationError(err))
}

func TestLatin1Fallback(t *testing.T) {
	// "Café" encoded as Latin-1: 0xE9 is not a valid UTF-8 sequence here.
	data := []byte("college name,Course\nCaf\xE9 Institute,B.Tech\n")
	path := writeFile(t, "courses.csv", data)

	_, err := tables.Read(path)
	require.Error(t, err)
	assert.True(t, errors.IsEncodingError(err))

	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	tbl, err := tables.ReadWithFallback(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, tables.Latin1, tbl.Encoding)
	assert.Equal(t, "Café Institute", tbl.Row(0).Get("College Name"))
	assert.True(t, tl.Contains("Latin-1"))
}

func TestFallbackKeepsValidUTF8(t *testing.T) {
	path := writeFile(t, "courses.csv", []byte("college name\nCafé Institute\n"))
	tbl, err := tables.ReadWithFallback(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, tables.UTF8, tbl.Encoding)
	assert.Equal(t, "Café Institute", tbl.Row(0).Get("college name"))
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	require.NoError(t, tables.Write(path, []string{"Name", "Fee"}, [][]string{
		{"ABC, College", ""},
		{"XYZ \"Inst\"", "0"},
	}))

	tbl, err := tables.Read(path)
	require.NoError(t, err)
	rows := tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "ABC, College", rows[0].Get("Name"))
	assert.Equal(t, "", rows[0].Get("Fee"))
	assert.Equal(t, "XYZ \"Inst\"", rows[1].Get("Name"))
	assert.Equal(t, "0", rows[1].Get("Fee"))
}
