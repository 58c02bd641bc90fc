package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Imagen ImagenConfig `mapstructure:"imagen" validate:"required"`
	Batch  BatchConfig  `mapstructure:"batch"  validate:"required"`
	Paths  PathsConfig  `mapstructure:"paths"  validate:"required"`
	Prompt PromptConfig `mapstructure:"prompt"`
	Log    LogConfig    `mapstructure:"log"    validate:"required"`
}

// ImagenConfig contains settings for the Vertex AI Imagen prediction endpoint.
type ImagenConfig struct {
	ProjectID string `mapstructure:"project_id" validate:"required"`
	Location  string `mapstructure:"location"   validate:"required"`
	Model     string `mapstructure:"model"      validate:"required"`
	// BaseURL overrides https://<location>-aiplatform.googleapis.com.
	BaseURL        string        `mapstructure:"base_url"        validate:"omitempty,url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
	// AccessToken skips Application Default Credentials when set.
	AccessToken string `mapstructure:"access_token"`

	SampleCount       int    `mapstructure:"sample_count"        validate:"gte=1,lte=4"`
	AspectRatio       string `mapstructure:"aspect_ratio"        validate:"oneof=1:1 9:16 16:9 3:4 4:3"`
	SafetyFilterLevel string `mapstructure:"safety_filter_level" validate:"oneof=block_most block_some block_few block_fewest"`
	PersonGeneration  string `mapstructure:"person_generation"   validate:"oneof=dont_allow allow_adult allow_all"`
}

// BatchConfig controls the fixed-interval rate limiting of the batch loop.
type BatchConfig struct {
	Size  int           `mapstructure:"size"  validate:"gt=0"`
	Delay time.Duration `mapstructure:"delay" validate:"gte=0"`
}

// PathsConfig locates the specialist document and the images directory.
// Relative paths are resolved against Root.
type PathsConfig struct {
	// Root is the program root; empty means auto-detect.
	Root      string `mapstructure:"root"`
	DataFile  string `mapstructure:"data_file"  validate:"required"`
	ImagesDir string `mapstructure:"images_dir" validate:"required"`
	// ImagePrefix is the relative path prefix written into each record.
	ImagePrefix string `mapstructure:"image_prefix" validate:"required"`
}

// PromptConfig contains prompt builder settings.
type PromptConfig struct {
	// QualitySuffix replaces the default lighting/realism tail when set.
	QualitySuffix string `mapstructure:"quality_suffix"`
	// StylePolicy selects how the appearance descriptor is chosen.
	StylePolicy string `mapstructure:"style_policy" validate:"oneof=name_fragments neutral"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}
