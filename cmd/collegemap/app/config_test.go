package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/collegemap/pkg/constants"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultDataDir, config.DataDir)
	assert.Equal(t, constants.DefaultDataDir, config.OutDir)
	assert.Equal(t, constants.RankingThreshold, config.RankingThreshold)
	assert.Equal(t, constants.CourseThreshold, config.CourseThreshold)
	assert.Equal(t, "token_sort", config.Scorer)
	assert.Equal(t, "auto", config.LogFormat)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COLLEGEMAP_RANKING_THRESHOLD", "90")
	t.Setenv("COLLEGEMAP_DATA_DIR", "/srv/colleges")
	t.Setenv("COLLEGEMAP_REPORT", "true")
	t.Setenv("COLLEGEMAP_CLEANED", "true")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 90, config.RankingThreshold)
	assert.Equal(t, "/srv/colleges", config.DataDir)
	assert.True(t, config.Report)
	assert.True(t, config.Cleaned)
	assert.True(t, config.Pipeline().Cleaned)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("COLLEGEMAP_COURSE_THRESHOLD=70\n"), 0o644))
	require.NoError(t, os.WriteFile(".env.local", []byte("COLLEGEMAP_COURSE_THRESHOLD=75\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("COLLEGEMAP_COURSE_THRESHOLD") })

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 75, config.CourseThreshold)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collegemap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: inputs
out_dir: outputs
scorer: token_sort_jaro_winkler
sqlite: true
verify:
  min_colleges: 10
  brands:
    - IIT Madras=Madras
`), 0o644))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, config.ConfigFile)
	assert.Equal(t, "outputs", config.OutDir)
	assert.Equal(t, "token_sort_jaro_winkler", config.Scorer)
	assert.True(t, config.SQLite)
	assert.Equal(t, 10, config.MinColleges)
	assert.Equal(t, []string{"IIT Madras=Madras"}, config.Brands)

	cfg := config.Pipeline()
	assert.Equal(t, filepath.Join("inputs", constants.DirectoryFile), cfg.Paths.Directory)
	assert.Equal(t, "outputs", cfg.OutDir)
	assert.NoError(t, cfg.Validate())
	assert.Len(t, config.VerifyOptions(), 3)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPipelineExplicitPaths(t *testing.T) {
	config := &Config{DataDir: "data", DirectoryPath: "/tmp/dir.csv", OutDir: "out"}
	cfg := config.Pipeline()
	assert.Equal(t, "/tmp/dir.csv", cfg.Paths.Directory)
	assert.Equal(t, filepath.Join("data", constants.CoursesFile), cfg.Paths.Courses)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}
	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "warn", config.LogLevel)

	config.UpdateFromFlags(false, true, false, "json", "debug")
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "debug", config.LogLevel)
}
