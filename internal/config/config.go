// =============================================================================
// Timesheet Converter - Configuration Module
// =============================================================================
//
// This module loads the run configuration: where the time-tracking export
// lives, which columns to drop or rename, how project names map to ids in
// the business system and how task ids are embedded in descriptions.
//
// CONFIGURATION FILE:
//   A single YAML or JSON file (config.json by default). JSON is a subset of
//   YAML, so both are decoded with the same YAML decoder.
//
// EXAMPLE (config.json):
//   {
//     "path": "export.csv",
//     "keys_to_remove": ["User", "Email"],
//     "columns_to_rename": {"Project": "project_id/id", "Description": "name"},
//     "project_ids": {"laboral": 4},
//     "sep": "-",
//     "date": "2023-08-18"
//   }
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/timesheet-converter/internal/types"
)

// DefaultPath is the configuration file read when no --config flag is given.
const DefaultPath = "config.json"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds everything one conversion run needs.
type Config struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// Path is the time-tracking export to convert. Must be a .csv file.
	Path string `yaml:"path" validate:"required"`

	// Encoding is the character encoding of the export.
	// Any WHATWG encoding label is accepted ("utf-8", "windows-1252", ...).
	// Default: "utf-8"
	Encoding string `yaml:"encoding"`

	// Delimiter is the field separator of the export.
	// Default: ","
	Delimiter string `yaml:"delimiter" validate:"omitempty,len=1"`

	// =========================================================================
	// TRANSFORMATION SETTINGS
	// =========================================================================

	// KeysToRemove lists columns dropped before any other step.
	// Names are matched case and whitespace insensitively.
	KeysToRemove []string `yaml:"keys_to_remove"`

	// ColumnsToRename maps source column names to output headers.
	// Keys are written the way the export capitalizes them, e.g. "Description".
	ColumnsToRename map[string]string `yaml:"columns_to_rename"`

	// ProjectIDs maps project names to their id in the business system.
	// Keys are canonicalized (lower-cased, trimmed) on load.
	ProjectIDs map[string]int `yaml:"project_ids"`

	// Sep separates the leading task id from the text of a description,
	// e.g. "-" for "42-Fix login bug".
	Sep string `yaml:"sep" validate:"required"`

	// Date is the activities date written on every row (YYYY-MM-DD).
	// Empty means today.
	Date string `yaml:"date"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// FileDate is the date stamped into the output file name (YYYY-MM-DD).
	// Empty means today.
	FileDate string `yaml:"file_date"`

	// OutputDir is where timesheets_<date>.xlsx is written.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// SheetName is the name of the single worksheet.
	// Default: "Sheet1"
	SheetName string `yaml:"sheet_name" validate:"max=31"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads, defaults and validates the configuration file at path.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - A ConfigError if the file cannot be read, parsed or is incomplete.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &types.Error{Kind: types.KindConfig, Op: "read config", Path: path, Err: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		var e *types.Error
		if errors.As(err, &e) {
			e.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes, defaults and validates raw configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, types.ConfigError("parse config", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, types.ConfigError("validate config", err)
	}

	ids, err := canonicalProjectIDs(cfg.ProjectIDs)
	if err != nil {
		return nil, types.ConfigError("validate config", err)
	}
	cfg.ProjectIDs = ids
	return &cfg, nil
}

// applyDefaults sets default values for any unset option.
func applyDefaults(cfg *Config) {
	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = ","
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Sheet1"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ColumnsToRename == nil {
		cfg.ColumnsToRename = map[string]string{}
	}
}

// canonicalProjectIDs lower-cases and trims the project-id keys. Two keys
// that end up equal are rejected, whatever their ids.
func canonicalProjectIDs(in map[string]int) (map[string]int, error) {
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make(map[string]int, len(in))
	seen := make(map[string]string, len(in))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("project_ids keys %q and %q both map to %q", prev, name, key)
		}
		seen[key] = name
		ids[key] = in[name]
	}
	return ids, nil
}

var structValidator = newValidator()

// newValidator reports fields by their configuration key instead of the Go
// field name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate checks required fields and value constraints.
func validate(cfg *Config) error {
	err := structValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
