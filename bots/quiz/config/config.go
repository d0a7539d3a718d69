package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	coreconfig "github.com/m3rciful/tgbots/core/config"
	coredatabase "github.com/m3rciful/tgbots/core/database"
)

// ImportConfig limits spreadsheet uploads.
type ImportConfig struct {
	MaxFileMB int `yaml:"max_file_mb" envconfig:"IMPORT_MAX_FILE_MB" validate:"gte=0"`
	MaxRows   int `yaml:"max_rows" envconfig:"IMPORT_MAX_ROWS" validate:"gte=0"`
}

// Config is the quiz bot configuration: the shared core plus storage and import limits.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Import   ImportConfig        `yaml:"import"`
}

const (
	defaultMaxFileMB = 10
	defaultMaxRows   = 5000
)

var validate = validator.New()

// Load reads, normalizes and validates the quiz bot configuration.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid quiz config: %w", err)
	}
	if cfg.Import.MaxFileMB == 0 {
		cfg.Import.MaxFileMB = defaultMaxFileMB
	}
	if cfg.Import.MaxRows == 0 {
		cfg.Import.MaxRows = defaultMaxRows
	}
	return &cfg, nil
}

// MaxFileBytes returns the upload size limit in bytes.
func (c ImportConfig) MaxFileBytes() int64 {
	return int64(c.MaxFileMB) << 20
}
