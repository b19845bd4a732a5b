package export_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/collegemap/internal/cleaning"
	"github.com/agentstation/collegemap/internal/export"
	"github.com/agentstation/collegemap/internal/tables"
	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/courses"
	"github.com/agentstation/collegemap/pkg/linker"
)

func fixture() (*colleges.Collection, []colleges.CourseEntry) {
	free := colleges.New("c1", "Free College", constants.SourceDirectory)
	free.Fee = colleges.NewFee(0)
	free.Extra = map[string]string{"Accreditation": "A"}
	free.SetRank(3)
	free.Sources.Add(constants.SourceRanking)

	unknown := colleges.New("c2", "Unknown Fee College", constants.SourceDirectory)
	unknown.Sources.Add(constants.SourceCourses)

	ranked := colleges.FromRanking("c3", colleges.RankingEntry{Name: "Ranked Only", City: "Delhi", State: "Delhi", Rank: 1}, constants.SourceRanking)

	coll := colleges.NewCollection(free, unknown, ranked)
	entries := []colleges.CourseEntry{
		colleges.Snapshot(free, colleges.CourseRow{CollegeName: "Free Colege", Course: "Civil Engineering"}, 96),
		colleges.Snapshot(unknown, colleges.CourseRow{CollegeName: "Unknown Fee College", Course: "IT"}, 100),
	}
	return coll, entries
}

func TestCollegeColumns(t *testing.T) {
	header := export.CollegeColumns([]string{"Accreditation"})
	require.Len(t, header, len(cleaning.DirectoryColumns)+1+14)
	assert.Equal(t, "College Name", header[0])
	assert.Equal(t, "Average Fees", header[14])
	assert.Equal(t, "Accreditation", header[15])
	assert.Equal(t, "College ID", header[16])
	assert.Equal(t, "Data_Sources", header[len(header)-1])
}

func TestCollegeColumnsSkipCollidingExtras(t *testing.T) {
	extra := []string{"District", "Accreditation", "college id", "website ", "ACCREDITATION"}
	assert.Equal(t, []string{"Accreditation"}, export.MasterExtras(extra))

	header := export.CollegeColumns(extra)
	keys := make(map[string]int)
	for _, h := range header {
		keys[tables.Key(h)]++
	}
	for key, n := range keys {
		assert.Equal(t, 1, n, key)
	}

	coll, _ := fixture()
	free, _ := coll.Get("c1")
	free.Extra["District"] = "Old District"
	free.District = "Pune"
	path := filepath.Join(t.TempDir(), constants.MasterCollegesFile)
	require.NoError(t, export.WriteColleges(path, coll.All(), extra))

	tbl, err := tables.Read(path)
	require.NoError(t, err)
	assert.Len(t, tbl.Header, len(header))
	assert.Equal(t, "Pune", tbl.Row(0).Get(export.ColDistrict))
	assert.Equal(t, "A", tbl.Row(0).Get("Accreditation"))
}

func TestWriteCollegesKeepsZeroAndAbsentFeesDistinct(t *testing.T) {
	coll, _ := fixture()
	path := filepath.Join(t.TempDir(), constants.MasterCollegesFile)
	require.NoError(t, export.WriteColleges(path, coll.All(), []string{"Accreditation"}))

	tbl, err := tables.Read(path)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())

	free, unknown, ranked := tbl.Row(0), tbl.Row(1), tbl.Row(2)
	assert.Equal(t, "0", free.Get(cleaning.ColAverageFees))
	assert.Equal(t, "", unknown.Get(cleaning.ColAverageFees))

	assert.Equal(t, "3", free.Get(export.ColRank))
	assert.Equal(t, "", unknown.Get(export.ColRank))
	assert.Equal(t, "1", ranked.Get(export.ColRank))

	assert.Equal(t, "A", free.Get("Accreditation"))
	assert.Equal(t, "c1", free.Get(export.ColCollegeID))
	assert.Equal(t, "directory,ranking", free.Get(export.ColDataSources))
	assert.Equal(t, "directory,courses", unknown.Get(export.ColDataSources))
	assert.Equal(t, "ranking", ranked.Get(export.ColDataSources))
	assert.Equal(t, constants.DefaultCountry, ranked.Get(cleaning.ColCountry))
	assert.Equal(t, constants.NotAvailable, ranked.Get(export.ColWebsite))
}

func TestWriteCourses(t *testing.T) {
	_, entries := fixture()
	path := filepath.Join(t.TempDir(), constants.MasterCoursesFile)
	require.NoError(t, export.WriteCourses(path, entries))

	tbl, err := tables.Read(path)
	require.NoError(t, err)
	assert.Equal(t, export.CourseColumns, tbl.Header)
	require.Equal(t, 2, tbl.Len())

	first := tbl.Row(0)
	assert.Equal(t, "c1", first.Get(export.ColCollegeID))
	assert.Equal(t, "Free College", first.Get(export.ColCollegeName))
	assert.Equal(t, "Free Colege", first.Get(export.ColSourceName))
	assert.Equal(t, "0", first.Get(export.ColAverageFees))
	assert.Equal(t, "3", first.Get(export.ColRank))
	assert.Equal(t, "96", first.Get(export.ColMatchScore))

	second := tbl.Row(1)
	assert.Equal(t, "", second.Get(export.ColAverageFees))
	assert.Equal(t, "", second.Get(export.ColRank))
}

func TestWriteSQLite(t *testing.T) {
	coll, entries := fixture()
	path := filepath.Join(t.TempDir(), "collegemap.db")
	ctx := context.Background()

	// Writing twice replaces the snapshot rather than appending.
	require.NoError(t, export.WriteSQLite(ctx, path, coll.All(), entries))
	require.NoError(t, export.WriteSQLite(ctx, path, coll.All(), entries))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM colleges").Scan(&n))
	assert.Equal(t, 3, n)
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses").Scan(&n))
	assert.Equal(t, 2, n)

	var fee sql.NullFloat64
	var rank sql.NullInt64
	require.NoError(t, db.QueryRowContext(ctx, "SELECT average_fee, rank FROM colleges WHERE id = ?", "c1").Scan(&fee, &rank))
	assert.True(t, fee.Valid)
	assert.Equal(t, 0.0, fee.Float64)
	assert.Equal(t, int64(3), rank.Int64)

	require.NoError(t, db.QueryRowContext(ctx, "SELECT average_fee, rank FROM colleges WHERE id = ?", "c2").Scan(&fee, &rank))
	assert.False(t, fee.Valid)
	assert.False(t, rank.Valid)

	var sources string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT data_sources FROM colleges WHERE id = ?", "c3").Scan(&sources))
	assert.Equal(t, "ranking", sources)
}

func TestWriteReport(t *testing.T) {
	coll, _ := fixture()
	report := &export.Report{
		GeneratedAt: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		Settings:    export.ReportSettings{RankingThreshold: 95, CourseThreshold: 80, Scorer: "token_sort"},
		Totals:      export.NewTotals(coll),
		Ranking: export.NewRankingSection(&linker.Result{
			Stats: linker.Stats{Processed: 1, Inserted: 1},
			Outcomes: []linker.Outcome{{
				Entry: colleges.RankingEntry{Name: "Ranked Only", Rank: 1, Row: 1},
				Kind:  linker.OutcomeInserted,
			}},
		}),
		Enrichment: &courses.EnrichResult{Matched: 1, FieldsFilled: 2},
		Courses: export.NewCourseSection(&courses.Result{
			Total: 2,
			Drops: []courses.Drop{{Row: 2, CollegeName: "Nowhere", Score: 40, Reason: courses.ReasonLowScore}},
		}),
		TopRanked: export.TopRanked(coll, constants.TopRankedCount),
	}
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, export.WriteReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "settings")
	assert.Contains(t, decoded, "top_ranked")

	totals := decoded["totals"].(map[string]any)
	assert.EqualValues(t, 3, totals["colleges"])
	assert.EqualValues(t, 2, totals["ranked"])

	top := decoded["top_ranked"].([]any)
	require.Len(t, top, 2)
	assert.Equal(t, "Ranked Only", top[0].(map[string]any)["name"])

	courseSection := decoded["courses"].(map[string]any)
	assert.EqualValues(t, 1, courseSection["dropped"])
	assert.EqualValues(t, 1, courseSection["by_reason"].(map[string]any)["low_score"])
}
