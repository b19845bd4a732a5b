package courses

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/fuzzy"
	"github.com/agentstation/collegemap/pkg/provenance"
)

// options configures a Linker or an Enricher.
type options struct {
	threshold int
	scorer    fuzzy.Scorer
	source    string
	logger    *zerolog.Logger
	tracker   provenance.Tracker
}

func defaultOptions() *options {
	return &options{
		threshold: constants.CourseThreshold,
		scorer:    fuzzy.TokenSort,
		source:    constants.SourceCourses,
		tracker:   provenance.NewTracker(false),
	}
}

// Option is a function that configures a Linker or an Enricher.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithThreshold sets the minimum fuzzy score for attributing a course row
// to a college.
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

// WithSource sets the provenance tag the Enricher adds to enriched records.
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

// WithLogger sets the logger. Without it the logger comes from the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithTracker records every field the Enricher fills.
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
