// Package config loads presenter settings from a TOML file.
package config

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/benpate/derp"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Queue contains settings for the message queue that notifications arrive on.
type Queue struct {
	Backend                  string `toml:"backend"`
	Name                     string `toml:"name"`
	WaitSeconds              int    `toml:"wait_seconds"`
	MaxMessages              int    `toml:"max_messages"`
	Region                   string `toml:"region"`
	Directory                string `toml:"directory"`
	MongoURI                 string `toml:"mongo_uri"`
	MongoDatabase            string `toml:"mongo_database"`
	MongoCollection          string `toml:"mongo_collection"`
	VisibilityTimeoutSeconds int    `toml:"visibility_timeout_seconds"`
}

// Automation contains settings for the presentation application.
type Automation struct {
	Application string `toml:"application"`
	OSAScript   string `toml:"osascript"`
}

// Publish contains settings for the topic that `send` publishes to.  When
// TopicARN is empty, `send` writes straight to the queue instead.
type Publish struct {
	TopicARN string `toml:"topic_arn"`
	Region   string `toml:"region"`
}

// Presentation is one catalog entry that spoken names are matched against.
type Presentation struct {
	Name     string `toml:"name"`
	Filename string `toml:"filename"`
}

// Config is the full presenter configuration.
type Config struct {
	BaseDir       string         `toml:"base_dir"`
	LogLevel      string         `toml:"log_level"`
	Catalog       string         `toml:"catalog"`
	Queue         Queue          `toml:"queue"`
	Automation    Automation     `toml:"automation"`
	Publish       Publish        `toml:"publish"`
	Presentations []Presentation `toml:"presentations"`
}

// DefaultConfigPath returns the location of the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// SampleConfig returns a commented sample configuration file.
func SampleConfig() string {
	return sampleConfig
}

// Load reads the configuration at `path` (or the default location when path
// is empty) on top of the defaults.  A missing file is not an error.  It
// returns the configuration, the resolved path, and whether the file existed.
func Load(path string) (*Config, string, bool, error) {

	const location = "config.Load"

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)

	if err != nil {
		return nil, "", false, derp.Wrap(err, location, "Unable to resolve config path", path)
	}

	if exists {
		file, err := os.Open(resolvedPath)

		if err != nil {
			return nil, "", false, derp.Wrap(err, location, "Unable to open config file", resolvedPath)
		}

		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, derp.Wrap(err, location, "Unable to parse config file", resolvedPath)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, derp.Wrap(err, location, "Unable to normalize config", resolvedPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, derp.Wrap(err, location, "Invalid config", resolvedPath)
	}

	return &cfg, resolvedPath, exists, nil
}

// Normalize trims values and expands `~` and relative paths.
func (c *Config) Normalize() error {

	const location = "config.Normalize"

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Queue.Backend = strings.ToLower(strings.TrimSpace(c.Queue.Backend))
	c.Queue.Name = strings.TrimSpace(c.Queue.Name)
	c.Automation.Application = strings.TrimSpace(c.Automation.Application)
	c.Publish.TopicARN = strings.TrimSpace(c.Publish.TopicARN)
	c.Catalog = strings.TrimSpace(c.Catalog)

	for index := range c.Presentations {
		c.Presentations[index].Name = strings.TrimSpace(c.Presentations[index].Name)
		c.Presentations[index].Filename = strings.TrimSpace(c.Presentations[index].Filename)
	}

	baseDir, err := expandPath(c.BaseDir)

	if err != nil {
		return derp.Wrap(err, location, "Unable to expand base_dir", c.BaseDir)
	}

	c.BaseDir = baseDir

	directory, err := expandPath(c.Queue.Directory)

	if err != nil {
		return derp.Wrap(err, location, "Unable to expand queue.directory", c.Queue.Directory)
	}

	c.Queue.Directory = directory

	// S3 locations are not file paths
	if !strings.HasPrefix(c.Catalog, "s3://") {
		catalog, err := expandPath(c.Catalog)

		if err != nil {
			return derp.Wrap(err, location, "Unable to expand catalog", c.Catalog)
		}

		c.Catalog = catalog
	}

	return nil
}

func resolveConfigPath(path string) (string, bool, error) {

	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	}

	expanded, err := expandPath(path)

	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, err
	}

	if info.IsDir() {
		return "", false, derp.InternalError("config.resolveConfigPath", "Config path is a directory", expanded)
	}

	return expanded, true, nil
}

// expandPath replaces a leading `~` with the home directory and makes the path absolute.
func expandPath(pathValue string) (string, error) {

	if pathValue == "" {
		return pathValue, nil
	}

	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}

	return filepath.Abs(filepath.Clean(pathValue))
}
