package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/collegemap/internal/verify"
	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/fuzzy"
	"github.com/agentstation/collegemap/pkg/pipeline"
)

// EnvPrefix prefixes every environment variable read through viper,
// e.g. COLLEGEMAP_RANKING_THRESHOLD.
const EnvPrefix = "COLLEGEMAP"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Inputs and outputs. Empty input paths resolve under DataDir.
	DataDir       string
	DirectoryPath string
	CoursesPath   string
	RankingsPath  string
	OutDir        string

	// Matching
	RankingThreshold int
	CourseThreshold  int
	Scorer           string

	// Optional outputs
	Report     bool
	SQLite     bool
	Provenance bool
	Cleaned    bool

	// Verification expectations
	MinColleges int
	MinRanked   int
	Brands      []string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.collegemap.yaml or ./.collegemap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), "")
}

// LoadConfigFile loads configuration like LoadConfig but reads the given
// config file instead of searching the standard locations.
func LoadConfigFile(path string) (*Config, error) {
	return loadConfig(viper.New(), path)
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".collegemap")
		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		DataDir:       v.GetString("data_dir"),
		DirectoryPath: v.GetString("directory"),
		CoursesPath:   v.GetString("courses"),
		RankingsPath:  v.GetString("rankings"),
		OutDir:        v.GetString("out_dir"),

		RankingThreshold: v.GetInt("ranking_threshold"),
		CourseThreshold:  v.GetInt("course_threshold"),
		Scorer:           v.GetString("scorer"),

		Report:     v.GetBool("report"),
		SQLite:     v.GetBool("sqlite"),
		Provenance: v.GetBool("provenance"),
		Cleaned:    v.GetBool("cleaned"),

		MinColleges: v.GetInt("verify.min_colleges"),
		MinRanked:   v.GetInt("verify.min_ranked"),
		Brands:      v.GetStringSlice("verify.brands"),

		// Logging configuration
		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
	if config.OutDir == "" {
		config.OutDir = config.DataDir
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", constants.DefaultDataDir)
	v.SetDefault("ranking_threshold", constants.RankingThreshold)
	v.SetDefault("course_threshold", constants.CourseThreshold)
	v.SetDefault("scorer", fuzzy.TokenSortName)
	v.SetDefault("verify.min_colleges", verify.DefaultMinColleges)
	v.SetDefault("verify.min_ranked", verify.DefaultMinRanked)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars. Boolean flags
// only switch a setting on.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Pipeline converts the configuration into a pipeline.Config.
func (c *Config) Pipeline() pipeline.Config {
	cfg := pipeline.Config{
		OutDir:           c.OutDir,
		RankingThreshold: c.RankingThreshold,
		CourseThreshold:  c.CourseThreshold,
		Scorer:           c.Scorer,
		Report:           c.Report,
		SQLite:           c.SQLite,
		Provenance:       c.Provenance,
		Cleaned:          c.Cleaned,
	}
	cfg.Paths.Directory = orJoin(c.DirectoryPath, c.DataDir, constants.DirectoryFile)
	cfg.Paths.Courses = orJoin(c.CoursesPath, c.DataDir, constants.CoursesFile)
	cfg.Paths.Rankings = orJoin(c.RankingsPath, c.DataDir, constants.RankingsFile)
	return cfg
}

// VerifyOptions converts the verification expectations into options.
// A brand entry is either a pattern or "Label=pattern".
func (c *Config) VerifyOptions() []verify.Option {
	opts := []verify.Option{
		verify.WithMinColleges(c.MinColleges),
		verify.WithMinRanked(c.MinRanked),
	}
	if len(c.Brands) > 0 {
		checks := make([]verify.BrandCheck, 0, len(c.Brands))
		for _, b := range c.Brands {
			checks = append(checks, verify.ParseBrandCheck(b))
		}
		opts = append(opts, verify.WithBrandChecks(checks...))
	}
	return opts
}

func orJoin(path, dir, name string) string {
	if path != "" {
		return path
	}
	return filepath.Join(dir, name)
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
