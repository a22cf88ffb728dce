package config

import "errors"

var (
	ErrReadingConfigFile     = errors.New("failed to read config file")
	ErrUnmarshallingConfig   = errors.New("failed to unmarshal config")
	ErrConfigFileMissing     = errors.New("config file not found")
	ErrEmptyTemplate         = errors.New("statistics template cannot be empty")
	ErrInvalidColumnMapping  = errors.New("statistic column needs both source and stat")
	ErrUnknownMatchFormat    = errors.New("unknown match format token")
	ErrInvalidProgressEvery  = errors.New("import progressEvery must be positive")
	ErrDuplicateTemplateStat = errors.New("duplicate statistic in template")
)
