// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App type so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/collegemap/internal/verify"
	"github.com/agentstation/collegemap/pkg/pipeline"
)

// Interface defines the application context that commands need.
type Interface interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// PipelineConfig returns the pipeline configuration assembled from
	// defaults, config file and environment. Commands apply their own
	// flags on top of the returned copy.
	PipelineConfig() pipeline.Config

	// VerifyOptions returns the configured verification expectations.
	VerifyOptions() []verify.Option

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
