// Package linker merges the national ranking list into the master college
// collection.
//
// Each ranking entry is linked in a single pass, in input order:
//
//  1. an exact name match takes the first record with that name;
//  2. otherwise the best fuzzy candidate among the distinct names in the
//     collection is accepted when its score reaches the threshold;
//  3. an accepted fuzzy match is confirmed against the records sharing the
//     matched name, by city and then by state;
//  4. the accepted record receives the rank and the ranking source tag;
//  5. an entry with no accepted match becomes a new record.
//
// New records are indexed immediately and can be matched by later entries
// of the same pass.
package linker

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/fuzzy"
	"github.com/agentstation/collegemap/pkg/logging"
	"github.com/agentstation/collegemap/pkg/provenance"
)

// Linker links ranking entries to a master collection.
type Linker struct {
	threshold int
	scorer    fuzzy.Scorer
	source    string
	newID     colleges.IDGenerator
	logger    *zerolog.Logger
	tracker   provenance.Tracker
}

// New creates a Linker with options.
func New(opts ...Option) (*Linker, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Linker{
		threshold: o.threshold,
		scorer:    o.scorer,
		source:    o.source,
		newID:     o.newID,
		logger:    o.logger,
		tracker:   o.tracker,
	}, nil
}

// Threshold returns the acceptance threshold.
func (l *Linker) Threshold() int {
	return l.threshold
}

// Link runs the linking pass, mutating coll in place. Cancellation is
// checked between entries.
func (l *Linker) Link(ctx context.Context, coll *colleges.Collection, entries []colleges.RankingEntry) (*Result, error) {
	logger := l.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	start := time.Now()

	pool := fuzzy.NewPool(l.scorer, coll.Names()...)
	result := &Result{Outcomes: make([]Outcome, 0, len(entries))}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Canceled(err)
		}
		outcome := l.linkOne(coll, pool, entry)
		result.Outcomes = append(result.Outcomes, outcome)
		result.Stats.record(outcome)

		event := logger.Debug()
		if outcome.Overwritten() {
			event = logger.Warn().Int("previous_rank", *outcome.PreviousRank)
		}
		event.
			Int("row", entry.Row).
			Str("name", entry.Name).
			Str("tag", string(outcome.Kind)).
			Str("college", outcome.CollegeName).
			Int("score", outcome.Score).
			Int("rank", entry.Rank).
			Msg("Linked ranking entry")
	}

	result.Duration = time.Since(start)
	logger.Info().
		Int("processed", result.Stats.Processed).
		Int("matched", result.Stats.Matched()).
		Int("inserted", result.Stats.Inserted).
		Int("overwritten", result.Stats.Overwritten).
		Int("threshold", l.threshold).
		Str("scorer", l.scorer.Name()).
		Dur("duration", result.Duration).
		Msg("Ranking link complete")
	return result, nil
}

// linkOne decides and applies the outcome for a single entry.
func (l *Linker) linkOne(coll *colleges.Collection, pool *fuzzy.Pool, entry colleges.RankingEntry) Outcome {
	if record, ok := coll.First(entry.Name); ok {
		return l.apply(record, entry, OutcomeExact, entry.Name, constants.MaxScore)
	}

	candidate, score, ok := pool.Best(entry.Name)
	if ok && score >= l.threshold {
		record, kind := confirm(coll.ByName(candidate), entry)
		outcome := l.apply(record, entry, kind, candidate, score)
		outcome.PhoneticAgree = fuzzy.PhoneticKey(entry.Name) == fuzzy.PhoneticKey(candidate)
		return outcome
	}

	record := colleges.FromRanking(l.newID(l.source, entry.Row), entry, l.source)
	coll.Add(record)
	pool.Add(record.Name)
	l.tracker.Track(record.ID, provenance.Provenance{
		Source: l.source,
		Field:  "rank",
		Value:  entry.Rank,
		Score:  score,
		Reason: string(OutcomeInserted),
	})
	return Outcome{
		Entry:       entry,
		Kind:        OutcomeInserted,
		CollegeID:   record.ID,
		CollegeName: record.Name,
		Candidate:   candidate,
		Score:       score,
	}
}

// apply writes the rank into the accepted record and unions the source tag.
func (l *Linker) apply(record *colleges.College, entry colleges.RankingEntry, kind Kind, candidate string, score int) Outcome {
	previous := record.SetRank(entry.Rank)
	record.Sources.Add(l.source)

	history := provenance.Provenance{
		Source: l.source,
		Field:  "rank",
		Value:  entry.Rank,
		Score:  score,
		Reason: string(kind),
	}
	if previous != nil {
		history.PreviousValue = *previous
	}
	l.tracker.Track(record.ID, history)

	return Outcome{
		Entry:        entry,
		Kind:         kind,
		CollegeID:    record.ID,
		CollegeName:  record.Name,
		Candidate:    candidate,
		Score:        score,
		PreviousRank: previous,
	}
}

// confirm picks the record among same-named records whose location agrees
// with the entry. For each record the city is tried before the state; the
// first record that agrees wins. Without agreement the first record is
// accepted as a name-only match.
func confirm(records []*colleges.College, entry colleges.RankingEntry) (*colleges.College, Kind) {
	for _, r := range records {
		if cityMatches(entry.City, r.City) {
			return r, OutcomeNameCity
		}
		if stateMatches(entry.State, r.State) {
			return r, OutcomeNameState
		}
	}
	return records[0], OutcomeNameOnly
}

// cityMatches reports whether the entry city occurs in the record city,
// ignoring case.
func cityMatches(entryCity, recordCity string) bool {
	entryCity = strings.TrimSpace(entryCity)
	if !colleges.IsAvailable(entryCity) || !colleges.IsAvailable(recordCity) {
		return false
	}
	return strings.Contains(strings.ToLower(recordCity), strings.ToLower(entryCity))
}

func stateMatches(entryState, recordState string) bool {
	entryState = strings.TrimSpace(entryState)
	if !colleges.IsAvailable(entryState) || !colleges.IsAvailable(recordState) {
		return false
	}
	return strings.EqualFold(entryState, strings.TrimSpace(recordState))
}
