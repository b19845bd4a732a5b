package pipeline

import (
	"github.com/agentstation/collegemap/internal/cleaning"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/fuzzy"
)

// Config is the validated runtime configuration of a pipeline run.
type Config struct {
	// Paths of the three raw inputs.
	Paths cleaning.Paths

	// OutDir receives every output file.
	OutDir string

	RankingThreshold int
	CourseThreshold  int

	// Scorer names the fuzzy scorer, see fuzzy.ScorerByName.
	Scorer string

	// Optional outputs.
	Report     bool
	SQLite     bool
	Provenance bool
	Cleaned    bool
}

// DefaultConfig reads inputs from and writes outputs to the data directory.
func DefaultConfig() Config {
	return Config{
		Paths:            cleaning.DefaultPaths(constants.DefaultDataDir),
		OutDir:           constants.DefaultDataDir,
		RankingThreshold: constants.RankingThreshold,
		CourseThreshold:  constants.CourseThreshold,
		Scorer:           fuzzy.TokenSortName,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.Paths.Directory == "":
		return errors.NewConfigError("pipeline", "directory input path is required", nil)
	case c.Paths.Courses == "":
		return errors.NewConfigError("pipeline", "course input path is required", nil)
	case c.Paths.Rankings == "":
		return errors.NewConfigError("pipeline", "ranking input path is required", nil)
	case c.OutDir == "":
		return errors.NewConfigError("pipeline", "output directory is required", nil)
	}
	if err := validThreshold("ranking_threshold", c.RankingThreshold); err != nil {
		return err
	}
	if err := validThreshold("course_threshold", c.CourseThreshold); err != nil {
		return err
	}
	if _, err := fuzzy.ScorerByName(c.Scorer); err != nil {
		return errors.NewConfigError("pipeline", "unknown scorer", err)
	}
	return nil
}

func validThreshold(field string, v int) error {
	if v < 0 || v > constants.MaxScore {
		return errors.NewConfigError("pipeline", field+" must be between 0 and 100",
			errors.NewValidationError(field, v, "out of range"))
	}
	return nil
}
