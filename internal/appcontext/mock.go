package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/collegemap/internal/verify"
	"github.com/agentstation/collegemap/pkg/logging"
	"github.com/agentstation/collegemap/pkg/pipeline"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding field.
// If a field is unset, the method returns a default value.
type Mock struct {
	LoggerFunc    func() *zerolog.Logger
	Format        string
	Pipeline      *pipeline.Config
	Verify        []verify.Option
	VersionString string
}

// Logger returns the mock logger or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns the configured format, defaulting to table.
func (m *Mock) OutputFormat() string {
	if m.Format == "" {
		return "table"
	}
	return m.Format
}

// PipelineConfig returns the mock config or pipeline.DefaultConfig.
func (m *Mock) PipelineConfig() pipeline.Config {
	if m.Pipeline != nil {
		return *m.Pipeline
	}
	return pipeline.DefaultConfig()
}

// VerifyOptions returns the mock options.
func (m *Mock) VerifyOptions() []verify.Option {
	return m.Verify
}

// Version returns the mock version or "test".
func (m *Mock) Version() string {
	if m.VersionString != "" {
		return m.VersionString
	}
	return "test"
}

// Commit returns "test-commit".
func (m *Mock) Commit() string { return "test-commit" }

// Date returns "test-date".
func (m *Mock) Date() string { return "test-date" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

var _ Interface = (*Mock)(nil)
