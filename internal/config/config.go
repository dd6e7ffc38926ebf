// Package config loads and validates the YAML build configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-simdoc/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Limits.
const (
	MaxWorkers       = 64
	MaxHeadingLevels = 6
)

// Renderer names accepted by the renderer field.
var renderers = []string{"html", "materialize", "latex"}

// Collapsible states accepted per heading level.
var collapsibleStates = []string{"none", "open", "close"}

// Log levels accepted by log.level.
var logLevels = []string{"debug", "info", "warn", "error"}

// Config holds the configuration of one build.
type Config struct {
	Renderer    string            `yaml:"renderer"`    // html, materialize or latex (default: html)
	Destination string            `yaml:"destination"` // output directory
	Sources     []SourceConfig    `yaml:"sources"`     // content directories, merged into one tree
	Workers     int               `yaml:"workers"`     // 0 = automatic
	Extensions  []ExtensionConfig `yaml:"extensions"`  // empty = every built-in extension
	Sections    SectionsConfig    `yaml:"sections"`
	Assets      AssetsConfig      `yaml:"assets"`
	PDF         PDFConfig         `yaml:"pdf"`
	Log         LogConfig         `yaml:"log"`
}

// SourceConfig is one content directory.
type SourceConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"` // local path prefix of its pages (empty = tree root)
}

// ExtensionConfig enables one extension with its options.
type ExtensionConfig struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// SectionsConfig controls the section pass of the HTML renderers.
type SectionsConfig struct {
	// Collapsible holds one state per heading level, h1 first. Missing
	// levels are "none".
	Collapsible []string `yaml:"collapsible"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PDFConfig prints HTML pages to PDF.
type PDFConfig struct {
	Enabled  bool   `yaml:"enabled"`
	KeepHTML bool   `yaml:"keepHTML"`
	Timeout  string `yaml:"timeout"` // per page, Go duration (default: 30s)
}

// LogConfig controls logging.
type LogConfig struct {
	Level   string `yaml:"level"` // debug, info, warn, error (default: info)
	Console bool   `yaml:"console"`
}

// Validate checks enumerated values and ranges. Called automatically by
// LoadConfig, but available for configurations built in code.
func (c *Config) Validate() error {
	if c.Renderer != "" && !oneOf(c.Renderer, renderers) {
		return fmt.Errorf("%w: renderer: %q (must be %s)", ErrInvalidValue, c.Renderer, strings.Join(renderers, ", "))
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	for i, s := range c.Sources {
		if s.Dir == "" {
			return fmt.Errorf("%w: sources[%d].dir: required", ErrInvalidValue, i)
		}
		if s.Prefix != "" && !validPrefix(s.Prefix) {
			return fmt.Errorf("%w: sources[%d].prefix: %q must be a relative slash path", ErrInvalidValue, i, s.Prefix)
		}
	}

	seen := make(map[string]bool, len(c.Extensions))
	for i, e := range c.Extensions {
		if e.Name == "" {
			return fmt.Errorf("%w: extensions[%d].name: required", ErrInvalidValue, i)
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: extensions[%d]: %q listed twice", ErrInvalidValue, i, e.Name)
		}
		seen[e.Name] = true
	}

	if len(c.Sections.Collapsible) > MaxHeadingLevels {
		return fmt.Errorf("%w: sections.collapsible: at most %d levels, got %d", ErrInvalidValue, MaxHeadingLevels, len(c.Sections.Collapsible))
	}
	for i, s := range c.Sections.Collapsible {
		if !oneOf(s, collapsibleStates) {
			return fmt.Errorf("%w: sections.collapsible[%d]: %q (must be %s)", ErrInvalidValue, i, s, strings.Join(collapsibleStates, ", "))
		}
	}

	if c.PDF.Enabled && c.Renderer == "latex" {
		return fmt.Errorf("%w: pdf.enabled: requires an HTML renderer", ErrInvalidValue)
	}
	if c.PDF.Timeout != "" {
		d, err := time.ParseDuration(c.PDF.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: pdf.timeout: %q is not a positive duration", ErrInvalidValue, c.PDF.Timeout)
		}
	}

	if c.Log.Level != "" && !oneOf(strings.ToLower(c.Log.Level), logLevels) {
		return fmt.Errorf("%w: log.level: %q (must be %s)", ErrInvalidValue, c.Log.Level, strings.Join(logLevels, ", "))
	}
	return nil
}

// Collapsible returns the per-level section states padded to six levels.
func (c *Config) Collapsible() [MaxHeadingLevels]string {
	var out [MaxHeadingLevels]string
	for i := range out {
		out[i] = "none"
		if i < len(c.Sections.Collapsible) {
			out[i] = c.Sections.Collapsible[i]
		}
	}
	return out
}

// PDFTimeout returns the parsed pdf.timeout, or zero when unset.
func (c *Config) PDFTimeout() time.Duration {
	d, err := time.ParseDuration(c.PDF.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// YAML returns c encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	return marshal(c)
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

func validPrefix(p string) bool {
	if path.IsAbs(p) || strings.Contains(p, `\`) {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Renderer:    "html",
		Destination: "site",
		Sources:     []SourceConfig{{Dir: "content"}},
		Log:         LogConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
//
// Relative source, destination and asset directories are resolved against
// the directory of the config file.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error
	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(configPath))
	return cfg, nil
}

func (c *Config) resolvePaths(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Destination = abs(c.Destination)
	c.Assets.BasePath = abs(c.Assets.BasePath)
	for i := range c.Sources {
		c.Sources[i].Dir = abs(c.Sources[i].Dir)
	}
}

// SearchPaths returns the candidate files for a config name, in lookup
// order: the current directory, then ~/.config/go-simdoc/, each with the
// .yaml and .yml extensions.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-simdoc", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
