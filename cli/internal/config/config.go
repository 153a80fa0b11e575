// Package config provides cssmin configuration with a defined load order:
// CLI flags > environment variables > project config > global config > defaults.
//
// Paths:
//   - Project: .cssmin.toml (relative to the project root, usually the working directory)
//   - Global: XDG config dir, e.g. ~/.config/cssmin/config.toml (see os.UserConfigDir)
//
// Environment variables (override config files when set):
//   - CSSMIN_EXTRA_PSEUDO_CLASSES, CSSMIN_EXTRA_CALC_FUNCTIONS (comma-separated names).
//   - CSSMIN_INCLUDE, CSSMIN_EXCLUDE (comma-separated doublestar patterns).
//   - CSSMIN_SUFFIX, CSSMIN_JOBS, CSSMIN_STATS_FORMAT (text, json, yaml).
//   - CSSMIN_TRAILING_NEWLINE (1/true/yes/on = true, 0/false/no/off = false).
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"cssmin/cli/internal/erruser"
	"cssmin/cli/internal/minify"
)

// ProjectFile is the project config file name, looked up in LoadOptions.ProjectRoot.
const ProjectFile = ".cssmin.toml"

// Config holds all cssmin configuration.
type Config struct {
	// ExtraPseudoClasses are functional pseudo-classes, beyond the built-in
	// ones, that may be followed by a chained selector without a space.
	ExtraPseudoClasses []string `toml:"extra_pseudo_classes"`
	// ExtraCalcFunctions are functions, beyond calc/clamp/min/max/var, whose
	// + and - keep their surrounding spaces.
	ExtraCalcFunctions []string `toml:"extra_calc_functions"`
	Include            []string `toml:"include"`
	Exclude            []string `toml:"exclude"`
	// Suffix is appended to the base name of each minified file (batch mode without --in-place).
	Suffix string `toml:"suffix"`
	// Jobs caps parallel files in batch mode (0 = GOMAXPROCS).
	Jobs            int    `toml:"jobs"`
	StatsFormat     string `toml:"stats_format"`
	TrailingNewline bool   `toml:"trailing_newline"`
}

// Overrides represents optional CLI flag overrides. Non-nil means "override with this value".
type Overrides struct {
	ExtraPseudoClasses []string
	ExtraCalcFunctions []string
	Include            []string
	Exclude            []string
	Suffix             *string
	Jobs               *int
	StatsFormat        *string
	TrailingNewline    *bool
}

// LoadOptions configures Load. All fields are optional.
type LoadOptions struct {
	// ProjectRoot is the directory holding .cssmin.toml; empty skips the project file.
	ProjectRoot string
	// ConfigPath, if set, replaces the project file lookup; unlike the project
	// file it must exist.
	ConfigPath string
	// GlobalConfigPath is the global config file path; if empty, XDG path is used.
	GlobalConfigPath string
	// Env is the environment key=value slice; if nil, os.Environ() is used.
	Env []string
	// Overrides are applied last (highest precedence).
	Overrides *Overrides
}

const (
	_defaultSuffix      = ".min.css"
	_defaultJobs        = 0
	_defaultStatsFormat = "text"
)

var (
	_defaultInclude = []string{"**/*.css"}
	_defaultExclude = []string{"**/*.min.css"}
)

// validStatsFormats is the set of allowed stats formats (normalized lowercase).
var validStatsFormats = map[string]struct{}{
	"text": {}, "json": {}, "yaml": {},
}

// validateStatsFormat normalizes s (trim, lowercase) and returns it if valid.
func validateStatsFormat(s string) (string, error) {
	norm := strings.TrimSpace(strings.ToLower(s))
	if _, ok := validStatsFormats[norm]; !ok {
		return "", erruser.New("Invalid stats format; use text, json, or yaml.", nil)
	}
	return norm, nil
}

// DefaultConfig returns the default configuration (no I/O).
func DefaultConfig() Config {
	return Config{
		Include:     append([]string(nil), _defaultInclude...),
		Exclude:     append([]string(nil), _defaultExclude...),
		Suffix:      _defaultSuffix,
		Jobs:        _defaultJobs,
		StatsFormat: _defaultStatsFormat,
	}
}

// Rules returns the minifier rules with the configured extra names merged in.
func (c Config) Rules() minify.Rules {
	return minify.DefaultRules().
		WithPseudoClasses(c.ExtraPseudoClasses...).
		WithCalcFunctions(c.ExtraCalcFunctions...)
}

// Load loads configuration with precedence: defaults < global file < project file < env < overrides.
// Missing config files are ignored (except an explicit ConfigPath). Invalid TOML or
// invalid env values return an error.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	cfg := DefaultConfig()

	globalPath := opts.GlobalConfigPath
	if globalPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, erruser.New("Could not determine config directory.", err)
		}
		globalPath = filepath.Join(dir, "cssmin", "config.toml")
	}
	if err := mergeFile(&cfg, globalPath); err != nil {
		return nil, err
	}

	switch {
	case opts.ConfigPath != "":
		if _, err := os.Stat(opts.ConfigPath); err != nil {
			return nil, erruser.New("Configuration file not found.", err)
		}
		if err := mergeFile(&cfg, opts.ConfigPath); err != nil {
			return nil, err
		}
	case opts.ProjectRoot != "":
		if err := mergeFile(&cfg, filepath.Join(opts.ProjectRoot, ProjectFile)); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg, opts.Env); err != nil {
		return nil, err
	}

	if err := applyOverrides(&cfg, opts.Overrides); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeFile reads path and merges into cfg. Only fields present in the file
// are overwritten; list fields replace (not extend) the previous value.
// A missing file is skipped (no error).
func mergeFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return erruser.New("Invalid configuration file.", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return erruser.New("Could not read configuration file.", err)
	}
	var file struct {
		ExtraPseudoClasses *[]string `toml:"extra_pseudo_classes"`
		ExtraCalcFunctions *[]string `toml:"extra_calc_functions"`
		Include            *[]string `toml:"include"`
		Exclude            *[]string `toml:"exclude"`
		Suffix             *string   `toml:"suffix"`
		Jobs               *int64    `toml:"jobs"`
		StatsFormat        *string   `toml:"stats_format"`
		TrailingNewline    *bool     `toml:"trailing_newline"`
	}
	if _, err := toml.Decode(string(data), &file); err != nil {
		return erruser.New("Invalid configuration in "+filepath.Base(path)+".", err)
	}
	if file.ExtraPseudoClasses != nil {
		cfg.ExtraPseudoClasses = *file.ExtraPseudoClasses
	}
	if file.ExtraCalcFunctions != nil {
		cfg.ExtraCalcFunctions = *file.ExtraCalcFunctions
	}
	if file.Include != nil && len(*file.Include) > 0 {
		cfg.Include = *file.Include
	}
	if file.Exclude != nil {
		cfg.Exclude = *file.Exclude
	}
	if file.Suffix != nil && *file.Suffix != "" {
		cfg.Suffix = *file.Suffix
	}
	if file.Jobs != nil {
		if *file.Jobs < 0 {
			return erruser.New("Configuration jobs must be non-negative.", nil)
		}
		v, err := safecast.Conv[int](*file.Jobs)
		if err != nil {
			return erruser.New("Configuration jobs value out of range.", err)
		}
		cfg.Jobs = v
	}
	if file.StatsFormat != nil && *file.StatsFormat != "" {
		norm, err := validateStatsFormat(*file.StatsFormat)
		if err != nil {
			return err
		}
		cfg.StatsFormat = norm
	}
	if file.TrailingNewline != nil {
		cfg.TrailingNewline = *file.TrailingNewline
	}
	return nil
}

// env key names for config
const (
	envExtraPseudoClasses = "CSSMIN_EXTRA_PSEUDO_CLASSES"
	envExtraCalcFunctions = "CSSMIN_EXTRA_CALC_FUNCTIONS"
	envInclude            = "CSSMIN_INCLUDE"
	envExclude            = "CSSMIN_EXCLUDE"
	envSuffix             = "CSSMIN_SUFFIX"
	envJobs               = "CSSMIN_JOBS"
	envStatsFormat        = "CSSMIN_STATS_FORMAT"
	envTrailingNewline    = "CSSMIN_TRAILING_NEWLINE"
)

func applyEnv(cfg *Config, env []string) error {
	vals := make(map[string]string)
	for _, e := range env {
		idx := strings.Index(e, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(e[:idx])
		val := strings.TrimSpace(e[idx+1:])
		vals[key] = val
	}
	if v, ok := vals[envExtraPseudoClasses]; ok {
		cfg.ExtraPseudoClasses = splitList(v)
	}
	if v, ok := vals[envExtraCalcFunctions]; ok {
		cfg.ExtraCalcFunctions = splitList(v)
	}
	if v, ok := vals[envInclude]; ok && v != "" {
		cfg.Include = splitList(v)
	}
	if v, ok := vals[envExclude]; ok {
		cfg.Exclude = splitList(v)
	}
	if v, ok := vals[envSuffix]; ok && v != "" {
		cfg.Suffix = v
	}
	if v, ok := vals[envJobs]; ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return erruser.New("CSSMIN_JOBS must be a valid number.", err)
		}
		if n < 0 {
			return erruser.New("CSSMIN_JOBS must be non-negative.", nil)
		}
		cfg.Jobs, err = safecast.Conv[int](n)
		if err != nil {
			return erruser.New("CSSMIN_JOBS value out of range.", err)
		}
	}
	if v, ok := vals[envStatsFormat]; ok && v != "" {
		norm, err := validateStatsFormat(v)
		if err != nil {
			return err
		}
		cfg.StatsFormat = norm
	}
	if v, ok := vals[envTrailingNewline]; ok && v != "" {
		b, err := parseBool(v)
		if err != nil {
			return erruser.New("CSSMIN_TRAILING_NEWLINE must be 1/true/yes/on or 0/false/no/off.", err)
		}
		cfg.TrailingNewline = b
	}
	return nil
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseBool parses common boolean env values: 1/true/yes/on = true, 0/false/no/off = false (case-insensitive).
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// applyOverrides applies CLI flags. Extra names from flags add to the
// configured ones; include/exclude from flags replace them.
func applyOverrides(cfg *Config, o *Overrides) error {
	if o == nil {
		return nil
	}
	cfg.ExtraPseudoClasses = append(cfg.ExtraPseudoClasses, o.ExtraPseudoClasses...)
	cfg.ExtraCalcFunctions = append(cfg.ExtraCalcFunctions, o.ExtraCalcFunctions...)
	if len(o.Include) > 0 {
		cfg.Include = o.Include
	}
	if len(o.Exclude) > 0 {
		cfg.Exclude = o.Exclude
	}
	if o.Suffix != nil && *o.Suffix != "" {
		cfg.Suffix = *o.Suffix
	}
	if o.Jobs != nil {
		v := *o.Jobs
		if v < 0 {
			v = 0
		}
		cfg.Jobs = v
	}
	if o.StatsFormat != nil && *o.StatsFormat != "" {
		norm, err := validateStatsFormat(*o.StatsFormat)
		if err != nil {
			return err
		}
		cfg.StatsFormat = norm
	}
	if o.TrailingNewline != nil {
		cfg.TrailingNewline = *o.TrailingNewline
	}
	return nil
}
