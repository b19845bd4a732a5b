package linker

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/collegemap/pkg/colleges"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/fuzzy"
	"github.com/agentstation/collegemap/pkg/provenance"
)

// options configures a Linker.
type options struct {
	threshold int
	scorer    fuzzy.Scorer
	source    string
	newID     colleges.IDGenerator
	logger    *zerolog.Logger
	tracker   provenance.Tracker
}

func defaultOptions() *options {
	return &options{
		threshold: constants.RankingThreshold,
		scorer:    fuzzy.TokenSort,
		source:    constants.SourceRanking,
		newID:     colleges.DeterministicID,
		tracker:   provenance.NewTracker(false),
	}
}

// Option is a function that configures a Linker.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithThreshold sets the minimum fuzzy score for accepting a match.
func WithThreshold(threshold int) Option {
	return func(o *options) error {
		if threshold < 0 || threshold > constants.MaxScore {
			return &errors.ValidationError{
				Field:   "threshold",
				Value:   threshold,
				Message: "must be between 0 and 100",
			}
		}
		o.threshold = threshold
		return nil
	}
}

// WithScorer sets the fuzzy scorer.
func WithScorer(scorer fuzzy.Scorer) Option {
	return func(o *options) error {
		if scorer == nil {
			return &errors.ValidationError{
				Field:   "scorer",
				Message: "cannot be nil",
			}
		}
		o.scorer = scorer
		return nil
	}
}

// WithSource sets the provenance tag added to matched and inserted records.
func WithSource(source string) Option {
	return func(o *options) error {
		if source == "" {
			return &errors.ValidationError{
				Field:   "source",
				Message: "cannot be empty",
			}
		}
		o.source = source
		return nil
	}
}

// WithIDGenerator sets how inserted records get their identifiers.
func WithIDGenerator(gen colleges.IDGenerator) Option {
	return func(o *options) error {
		if gen == nil {
			return &errors.ValidationError{
				Field:   "id_generator",
				Message: "cannot be nil",
			}
		}
		o.newID = gen
		return nil
	}
}

// WithLogger sets the logger. Without it the logger comes from the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithTracker records every rank write in the given provenance tracker.
func WithTracker(tracker provenance.Tracker) Option {
	return func(o *options) error {
		if tracker == nil {
			return &errors.ValidationError{
				Field:   "tracker",
				Message: "cannot be nil",
			}
		}
		o.tracker = tracker
		return nil
	}
}
