package linker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/linker"
	"github.com/agentstation/collegemap/pkg/logging"
	"github.com/agentstation/collegemap/pkg/provenance"
)

func college(id, name, city, state string) *colleges.College {
	c := colleges.New(id, name, constants.SourceDirectory)
	c.City = city
	c.State = state
	return c
}

func entry(row int, name, city, state string, rank int) colleges.RankingEntry {
	return colleges.RankingEntry{Name: name, City: city, State: state, Rank: rank, Row: row}
}

func newLinker(t *testing.T, opts ...linker.Option) *linker.Linker {
	t.Helper()
	opts = append([]linker.Option{linker.WithLogger(logging.NewNopLogger())}, opts...)
	l, err := linker.New(opts...)
	require.NoError(t, err)
	return l
}

// stubScorer scores a query by table lookup, regardless of the candidate.
type stubScorer map[string]int

func (stubScorer) Name() string            { return "stub" }
func (stubScorer) Prepare(s string) string { return s }
func (s stubScorer) Compare(a, _ string) int {
	return s[a]
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  linker.Option
	}{
		{"negative threshold", linker.WithThreshold(-1)},
		{"threshold above 100", linker.WithThreshold(101)},
		{"nil scorer", linker.WithScorer(nil)},
		{"empty source", linker.WithSource("")},
		{"nil id generator", linker.WithIDGenerator(nil)},
		{"nil tracker", linker.WithTracker(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := linker.New(tt.opt)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}

	l, err := linker.New()
	require.NoError(t, err)
	assert.Equal(t, constants.RankingThreshold, l.Threshold())
}

func TestExactMatchWinsOverFuzzyCandidate(t *testing.T) {
	// "College ABC" comes first and scores 100 under token sort, but the
	// exact name must win.
	coll := colleges.NewCollection(
		college("d1", "College ABC", "Pune", "Maharashtra"),
		college("d2", "ABC College", "Pune", "Maharashtra"),
	)
	res, err := newLinker(t).Link(context.Background(), coll, []colleges.RankingEntry{
		entry(1, "ABC College", "Pune", "Maharashtra", 7),
	})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 1)

	o := res.Outcomes[0]
	assert.Equal(t, linker.OutcomeExact, o.Kind)
	assert.Equal(t, "d2", o.CollegeID)
	assert.Equal(t, 100, o.Score)
	assert.Equal(t, 1, res.Stats.Exact)

	first, _ := coll.Get("d1")
	assert.Nil(t, first.Rank)
}

func TestExactMatchTakesFirstRecord(t *testing.T) {
	coll := colleges.NewCollection(
		college("d1", "ABC College", "Pune", "Maharashtra"),
		college("d2", "ABC College", "Nagpur", "Maharashtra"),
	)
	res, err := newLinker(t).Link(context.Background(), coll, []colleges.RankingEntry{
		entry(1, "ABC College", "Nagpur", "Maharashtra", 3),
	})
	require.NoError(t, err)
	assert.Equal(t, "d1", res.Outcomes[0].CollegeID)
}

func TestThresholdBoundary(t *testing.T) {
	scorer := stubScorer{"Accepted": 95, "Rejected": 94}
	coll := colleges.NewCollection(college("d1", "Target", "Pune", "Maharashtra"))

	res, err := newLinker(t, linker.WithScorer(scorer)).Link(context.Background(), coll, []colleges.RankingEntry{
		entry(1, "Accepted", "", "", 1),
		entry(2, "Rejected", "", "", 2),
	})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 2)

	assert.Equal(t, linker.OutcomeNameOnly, res.Outcomes[0].Kind)
	assert.Equal(t, "d1", res.Outcomes[0].CollegeID)
	assert.Equal(t, 95, res.Outcomes[0].Score)

	assert.Equal(t, linker.OutcomeInserted, res.Outcomes[1].Kind)
	assert.Equal(t, 94, res.Outcomes[1].Score)
	assert.Equal(t, "Target", res.Outcomes[1].Candidate)
	assert.Equal(t, 2, coll.Len())
}

func TestLocationConfirmation(t *testing.T) {
	name := "Sri Venkateswara College of Engineering"
	query := "Sri Venkateswara College Of Engineering"

	tests := []struct {
		name    string
		entry   colleges.RankingEntry
		want    linker.Kind
		wantID  string
		records []*colleges.College
	}{
		{
			name:   "city substring",
			entry:  entry(1, query, "chennai", "", 10),
			want:   linker.OutcomeNameCity,
			wantID: "d2",
		},
		{
			name:   "state equality",
			entry:  entry(1, query, "Sriperumbudur", "TAMIL NADU", 10),
			want:   linker.OutcomeNameState,
			wantID: "d2",
		},
		{
			name:   "no agreement",
			entry:  entry(1, query, "Pune", "Maharashtra", 10),
			want:   linker.OutcomeNameOnly,
			wantID: "d1",
		},
		{
			name:   "not available never confirms",
			entry:  entry(1, query, constants.NotAvailable, constants.NotAvailable, 10),
			want:   linker.OutcomeNameOnly,
			wantID: "d1",
			records: []*colleges.College{
				college("d1", name, constants.NotAvailable, constants.NotAvailable),
			},
		},
		{
			name:   "record order before test order",
			entry:  entry(1, query, "Chennai", "Andhra Pradesh", 10),
			want:   linker.OutcomeNameState,
			wantID: "d1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := tt.records
			if records == nil {
				records = []*colleges.College{
					college("d1", name, "Tirupati", "Andhra Pradesh"),
					college("d2", name, "Greater Chennai", "Tamil Nadu"),
				}
			}
			coll := colleges.NewCollection(records...)
			res, err := newLinker(t).Link(context.Background(), coll, []colleges.RankingEntry{tt.entry})
			require.NoError(t, err)

			o := res.Outcomes[0]
			assert.Equal(t, tt.want, o.Kind)
			assert.Equal(t, tt.wantID, o.CollegeID)
			assert.Equal(t, 100, o.Score)

			// Confirmation only changes the tag, never acceptance.
			assert.True(t, o.Matched())
			assert.Equal(t, len(records), coll.Len())

			record, ok := coll.Get(tt.wantID)
			require.True(t, ok)
			rank, ranked := record.RankValue()
			require.True(t, ranked)
			assert.Equal(t, 10, rank)
		})
	}
}

func TestInsertedRecordsAreVisibleToLaterEntries(t *testing.T) {
	coll := colleges.NewCollection()
	res, err := newLinker(t).Link(context.Background(), coll, []colleges.RankingEntry{
		entry(1, "New Institute of Technology", "Surat", "Gujarat", 5),
		entry(2, "new institute of technology", "Surat", "Gujarat", 6),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, coll.Len())
	assert.Equal(t, linker.OutcomeInserted, res.Outcomes[0].Kind)
	assert.Equal(t, linker.OutcomeNameCity, res.Outcomes[1].Kind)
	assert.Equal(t, res.Outcomes[0].CollegeID, res.Outcomes[1].CollegeID)

	require.True(t, res.Outcomes[1].Overwritten())
	assert.Equal(t, 5, *res.Outcomes[1].PreviousRank)
	assert.Equal(t, 1, res.Stats.Overwritten)
	assert.Len(t, res.Overwrites(), 1)

	record, _ := coll.Get(res.Outcomes[0].CollegeID)
	assert.Equal(t, 6, *record.Rank)
}

func TestDuplicateInsertLosesEarlierRank(t *testing.T) {
	coll := colleges.NewCollection()
	res, err := newLinker(t).Link(context.Background(), coll, []colleges.RankingEntry{
		entry(1, "Twin Valley College", "Ooty", "Tamil Nadu", 7),
		entry(2, "Twin Valley College", "Ooty", "Tamil Nadu", 9),
	})
	require.NoError(t, err)

	require.Equal(t, 1, coll.Len())
	assert.Equal(t, linker.OutcomeInserted, res.Outcomes[0].Kind)
	assert.Equal(t, linker.OutcomeExact, res.Outcomes[1].Kind)
	assert.Equal(t, 1, res.Stats.Inserted)
	assert.Equal(t, 1, res.Stats.Exact)

	for _, c := range coll.All() {
		require.NotNil(t, c.Rank)
		assert.NotEqual(t, 7, *c.Rank)
	}

	// The first rank survives only in the overwrite report.
	overwrites := res.Overwrites()
	require.Len(t, overwrites, 1)
	assert.Equal(t, 7, *overwrites[0].PreviousRank)
	assert.Equal(t, 9, overwrites[0].Entry.Rank)
	assert.Contains(t, res.Summary(), "1 ranks overwritten")
}

func TestInsertedRecordDefaults(t *testing.T) {
	coll := colleges.NewCollection()
	res, err := newLinker(t).Link(context.Background(), coll, []colleges.RankingEntry{
		entry(4, "Lone College", "", "Kerala", 42),
	})
	require.NoError(t, err)

	o := res.Outcomes[0]
	assert.Equal(t, colleges.DeterministicID(constants.SourceRanking, 4), o.CollegeID)
	assert.Equal(t, "", o.Candidate)
	assert.Equal(t, 0, o.Score)

	record, ok := coll.Get(o.CollegeID)
	require.True(t, ok)
	assert.Equal(t, "Lone College", record.Name)
	assert.Equal(t, constants.NotAvailable, record.City)
	assert.Equal(t, "Kerala", record.State)
	assert.Equal(t, constants.DefaultCountry, record.Country)
	assert.True(t, record.Fee.IsAbsent())
	assert.Equal(t, 0, record.Enrollment)
	assert.Equal(t, []string{constants.SourceRanking}, record.Sources.Tags())
}

func TestAcceptedMatchNeverInsertsDuplicate(t *testing.T) {
	coll := colleges.NewCollection(
		college("d1", "Indian Institute of Technology Madras", "Chennai", "Tamil Nadu"),
		college("d2", "Anna University", "Chennai", "Tamil Nadu"),
	)
	entries := []colleges.RankingEntry{
		entry(1, "Indian Institute of Technology, Madras", "Chennai", "Tamil Nadu", 1),
		entry(2, "Madras Indian Institute of Technology", "", "", 1),
	}
	res, err := newLinker(t).Link(context.Background(), coll, entries)
	require.NoError(t, err)

	assert.Equal(t, 2, coll.Len())
	assert.Equal(t, 0, res.Stats.Inserted)
	for _, o := range res.Outcomes {
		assert.GreaterOrEqual(t, o.Score, constants.RankingThreshold)
		assert.Equal(t, "d1", o.CollegeID)
	}
	assert.Len(t, coll.ByName("Indian Institute of Technology, Madras"), 0)
}

func TestRankCompletenessAndProvenance(t *testing.T) {
	coll := colleges.NewCollection(
		college("d1", "PSG College of Technology", "Coimbatore", "Tamil Nadu"),
		college("d2", "Anna University", "Chennai", "Tamil Nadu"),
		college("d3", "College of Engineering Pune", "Pune", "Maharashtra"),
	)
	before := map[string][]string{}
	for _, r := range coll.All() {
		before[r.ID] = r.Sources.Tags()
	}

	entries := []colleges.RankingEntry{
		entry(1, "Anna University", "Chennai", "Tamil Nadu", 14),
		entry(2, "PSG College of Technology", "Coimbatore", "Tamil Nadu", 63),
		entry(3, "Thapar Institute", "Patiala", "Punjab", 29),
		entry(4, "Pune College of Engineering", "Pune", "Maharashtra", 70),
		entry(5, "Anna University", "Chennai", "Tamil Nadu", 15),
	}
	res, err := newLinker(t).Link(context.Background(), coll, entries)
	require.NoError(t, err)
	require.Len(t, res.Outcomes, len(entries))
	assert.Equal(t, len(entries), res.Stats.Processed)
	assert.Equal(t, res.Stats.Processed, res.Stats.Matched()+res.Stats.Inserted)

	// The last write to each record is the rank it carries.
	last := map[string]int{}
	for _, o := range res.Outcomes {
		last[o.CollegeID] = o.Entry.Rank
	}
	for id, rank := range last {
		record, ok := coll.Get(id)
		require.True(t, ok)
		require.NotNil(t, record.Rank)
		assert.Equal(t, rank, *record.Rank)
		assert.True(t, record.Sources.Has(constants.SourceRanking))
	}
	assert.Equal(t, 1, res.Stats.Overwritten)

	for _, r := range coll.All() {
		assert.Positive(t, r.Sources.Len())
		for _, tag := range before[r.ID] {
			assert.True(t, r.Sources.Has(tag), "provenance lost %q on %s", tag, r.ID)
		}
	}

	// Union is idempotent: the second Anna University write kept two tags.
	anna, _ := coll.Get("d2")
	assert.Equal(t, []string{constants.SourceDirectory, constants.SourceRanking}, anna.Sources.Tags())
}

func TestLinkRecordsProvenance(t *testing.T) {
	tracker := provenance.NewTracker(true)
	coll := colleges.NewCollection(college("d1", "Anna University", "Chennai", "Tamil Nadu"))
	_, err := newLinker(t, linker.WithTracker(tracker)).Link(context.Background(), coll, []colleges.RankingEntry{
		entry(1, "Anna University", "Chennai", "Tamil Nadu", 14),
		entry(2, "Anna University", "Chennai", "Tamil Nadu", 12),
	})
	require.NoError(t, err)

	history := tracker.FindByField("d1", "rank")
	require.Len(t, history, 2)
	assert.Equal(t, 14, history[0].Value)
	assert.Nil(t, history[0].PreviousValue)
	assert.Equal(t, 12, history[1].Value)
	assert.Equal(t, 14, history[1].PreviousValue)
	assert.Equal(t, string(linker.OutcomeExact), history[1].Reason)
}

func TestLinkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	coll := colleges.NewCollection()
	_, err := newLinker(t).Link(ctx, coll, []colleges.RankingEntry{entry(1, "X", "", "", 1)})
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, coll.Len())
}

func TestLinkLogsOverwrites(t *testing.T) {
	tl := logging.NewTestLogger(t)
	coll := colleges.NewCollection(college("d1", "Anna University", "Chennai", "Tamil Nadu"))
	l, err := linker.New(linker.WithLogger(tl.Logger))
	require.NoError(t, err)

	_, err = l.Link(context.Background(), coll, []colleges.RankingEntry{
		entry(1, "Anna University", "", "", 14),
		entry(2, "Anna University", "", "", 12),
	})
	require.NoError(t, err)
	assert.True(t, tl.Contains(`"previous_rank":14`))
	assert.True(t, tl.Contains("Ranking link complete"))
}

func TestSummary(t *testing.T) {
	res := &linker.Result{Stats: linker.Stats{Processed: 4, Exact: 1, NameCity: 1, Inserted: 2}}
	assert.Equal(t, "Linked 4 ranking entries: 1 exact, 1 name+city, 0 name+state, 0 name_only, 2 inserted", res.Summary())

	res.Stats.Overwritten = 1
	assert.Contains(t, res.Summary(), "(1 ranks overwritten)")
}
