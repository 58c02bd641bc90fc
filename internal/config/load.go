package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load,
// e.g. PORTRAITS_BATCH_SIZE for batch.size.
const EnvPrefix = "PORTRAITS"

// ProjectEnvVar is the conventional Google Cloud project variable. It is
// consulted before the positional project argument.
const ProjectEnvVar = "GOOGLE_CLOUD_PROJECT"

// Default values.
const (
	DefaultLocation       = "us-central1"
	DefaultModel          = "imagegeneration@005"
	DefaultRequestTimeout = 60 * time.Second
	DefaultBatchSize      = 5
	DefaultBatchDelay     = 2 * time.Second
	DefaultDataFile       = "static/data/doctors.json"
	DefaultImagesDir      = "static/Images"
	DefaultImagePrefix    = "Images"
)

// FlagKeys maps command-line flag names to configuration keys. Flags present
// in the FlagSet given to Load are bound with this table.
var FlagKeys = map[string]string{
	"location":     "imagen.location",
	"model":        "imagen.model",
	"base-url":     "imagen.base_url",
	"batch-size":   "batch.size",
	"delay":        "batch.delay",
	"root":         "paths.root",
	"data-file":    "paths.data_file",
	"images-dir":   "paths.images_dir",
	"style-policy": "prompt.style_policy",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// LoadOptions controls the optional sources consulted by Load.
type LoadOptions struct {
	// ConfigFile is an optional YAML/JSON/TOML file path.
	ConfigFile string

	// Flags are bound per FlagKeys; only flags the user changed take effect.
	Flags *pflag.FlagSet

	// ProjectArg is the positional project identifier, used only when
	// neither GOOGLE_CLOUD_PROJECT nor PORTRAITS_IMAGEN_PROJECT_ID is set.
	ProjectArg string
}

// Load configuration from defaults, an optional config file, environment
// variables and flags, in increasing order of precedence.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("imagen.project_id", ProjectEnvVar, EnvPrefix+"_IMAGEN_PROJECT_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind project environment variable: %w", err)
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Imagen.ProjectID == "" {
		cfg.Imagen.ProjectID = strings.TrimSpace(opts.ProjectArg)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers a default for every key so AutomaticEnv can see it
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("imagen.project_id", "")
	v.SetDefault("imagen.location", DefaultLocation)
	v.SetDefault("imagen.model", DefaultModel)
	v.SetDefault("imagen.base_url", "")
	v.SetDefault("imagen.request_timeout", DefaultRequestTimeout)
	v.SetDefault("imagen.access_token", "")
	v.SetDefault("imagen.sample_count", 1)
	v.SetDefault("imagen.aspect_ratio", "1:1")
	v.SetDefault("imagen.safety_filter_level", "block_some")
	v.SetDefault("imagen.person_generation", "allow_adult")

	v.SetDefault("batch.size", DefaultBatchSize)
	v.SetDefault("batch.delay", DefaultBatchDelay)

	v.SetDefault("paths.root", "")
	v.SetDefault("paths.data_file", DefaultDataFile)
	v.SetDefault("paths.images_dir", DefaultImagesDir)
	v.SetDefault("paths.image_prefix", DefaultImagePrefix)

	v.SetDefault("prompt.quality_suffix", "")
	v.SetDefault("prompt.style_policy", "name_fragments")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// IsMissingProject reports whether err is a validation failure caused only
// by an absent project identifier.
func IsMissingProject(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return false
	}
	for _, fe := range verrs {
		if fe.StructNamespace() != "Config.Imagen.ProjectID" {
			return false
		}
	}
	return true
}
