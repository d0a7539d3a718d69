package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	coreconfig "github.com/m3rciful/tgbots/core/config"
)

// PDFConfig controls photo sessions and page rendering.
type PDFConfig struct {
	// TempDir holds per-user session folders.
	TempDir   string `yaml:"temp_dir" envconfig:"PDF_TEMP_DIR"`
	MaxPhotos int    `yaml:"max_photos" envconfig:"PDF_MAX_PHOTOS" validate:"gte=0,lte=500"`
	// MaxSide bounds the longer image side in pixels; larger images are scaled down.
	MaxSide     int `yaml:"max_side" envconfig:"PDF_MAX_SIDE" validate:"gte=0,lte=10000"`
	JPEGQuality int `yaml:"jpeg_quality" envconfig:"PDF_JPEG_QUALITY" validate:"gte=0,lte=100"`
	MaxFileMB   int `yaml:"max_file_mb" envconfig:"PDF_MAX_FILE_MB" validate:"gte=0"`
}

// Config is the PDF bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	PDF PDFConfig `yaml:"pdf"`
}

const (
	defaultTempDir     = "temp"
	defaultMaxPhotos   = 50
	defaultMaxSide     = 2480
	defaultJPEGQuality = 85
	defaultMaxFileMB   = 20
)

var validate = validator.New()

// Load reads, normalizes and validates the PDF bot configuration.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid pdf config: %w", err)
	}
	cfg.PDF.applyDefaults()
	return &cfg, nil
}

func (c *PDFConfig) applyDefaults() {
	if strings.TrimSpace(c.TempDir) == "" {
		c.TempDir = defaultTempDir
	}
	if c.MaxPhotos == 0 {
		c.MaxPhotos = defaultMaxPhotos
	}
	if c.MaxSide == 0 {
		c.MaxSide = defaultMaxSide
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = defaultJPEGQuality
	}
	if c.MaxFileMB == 0 {
		c.MaxFileMB = defaultMaxFileMB
	}
}

// MaxFileBytes returns the per-image download limit in bytes.
func (c PDFConfig) MaxFileBytes() int64 {
	return int64(c.MaxFileMB) << 20
}
