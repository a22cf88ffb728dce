package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/iljabvh/firstserve/internal/model"
)

const (
	defaultProgressEvery   = 10000
	defaultMinMatches      = 500
	defaultMinObservations = 50
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultLogFileEnabled  = false
	defaultLogDirectory    = "log"
	defaultLogFilename     = "firstserve.log"
	defaultLogMaxSizeMB    = 100
	defaultLogMaxBackups   = 3
	defaultLogMaxAgeDays   = 7
	defaultLogCompress     = false

	envPrefix = "FIRSTSERVE"
)

// Match format tokens accepted in import.matchFormats.
const (
	TokenTwoSets   = "two-set"
	TokenThreeSets = "three-set"
	TokenBestOf3   = "Bo3" // shorthand for both two-set and three-set
	TokenBestOf5   = "Bo5" // accepted but never imported
)

type Config struct {
	Import     ImportConfig     `mapstructure:"import"`
	Statistics StatisticsConfig `mapstructure:"statistics"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Report     ReportConfig     `mapstructure:"report"`
	Log        LogConfig        `mapstructure:"log"`
}

type ImportConfig struct {
	MatchFormats  []string `mapstructure:"matchFormats"`
	ProgressEvery int      `mapstructure:"progressEvery"`
}

type StatisticsConfig struct {
	Template []string        `mapstructure:"template"`
	Columns  []ColumnMapping `mapstructure:"columns"`
}

// ColumnMapping maps a raw column prefix such as "Serve1stPCT_" to a canonical
// statistic. The participant slot ("1" or "2") is appended per match.
type ColumnMapping struct {
	Source string `mapstructure:"source"`
	Stat   string `mapstructure:"stat"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type ReportConfig struct {
	MinMatches      int `mapstructure:"minMatches"`
	MinObservations int `mapstructure:"minObservations"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"` // megabytes
	MaxBackups         int    `mapstructure:"maxBackups"`
	MaxAge             int    `mapstructure:"maxAge"` // days
	Compress           bool   `mapstructure:"compress"`
}

// Load reads the config file, applies defaults and environment overrides,
// and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)
	setDefaults(v)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("import.matchFormats", []string{TokenTwoSets, TokenThreeSets})
	v.SetDefault("import.progressEvery", defaultProgressEvery)
	v.SetDefault("storage.path", DefaultDBPath())
	v.SetDefault("report.minMatches", defaultMinMatches)
	v.SetDefault("report.minObservations", defaultMinObservations)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) || errors.Is(err, os.ErrNotExist) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if len(cfg.Statistics.Template) == 0 {
		return ErrEmptyTemplate
	}
	seen := make(map[string]bool, len(cfg.Statistics.Template))
	for _, s := range cfg.Statistics.Template {
		if seen[s] {
			return fmt.Errorf("%w: %q", ErrDuplicateTemplateStat, s)
		}
		seen[s] = true
	}
	for _, c := range cfg.Statistics.Columns {
		if c.Source == "" || c.Stat == "" {
			return fmt.Errorf("%w: %+v", ErrInvalidColumnMapping, c)
		}
	}
	if _, err := ParseFormats(cfg.Import.MatchFormats); err != nil {
		return err
	}
	if cfg.Import.ProgressEvery <= 0 {
		return ErrInvalidProgressEvery
	}
	return nil
}

// Formats returns the set of match formats enabled by the whitelist.
func (c *Config) Formats() map[model.Format]bool {
	f, _ := ParseFormats(c.Import.MatchFormats)
	return f
}

// ParseFormats expands whitelist tokens. Bo5 is accepted for compatibility
// with existing config files but enables nothing.
func ParseFormats(tokens []string) (map[model.Format]bool, error) {
	out := make(map[model.Format]bool)
	for _, t := range tokens {
		switch t {
		case TokenTwoSets:
			out[model.FormatTwoSets] = true
		case TokenThreeSets:
			out[model.FormatThreeSets] = true
		case TokenBestOf3:
			out[model.FormatTwoSets] = true
			out[model.FormatThreeSets] = true
		case TokenBestOf5:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownMatchFormat, t)
		}
	}
	return out, nil
}

// DefaultDBPath is ~/.firstserve/firstserve.db, or a relative path when the
// home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".firstserve", "firstserve.db")
}
