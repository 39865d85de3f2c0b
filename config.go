package datacollect

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/testhost/datacollect/collector"
	"github.com/testhost/datacollect/events"
	"github.com/testhost/datacollect/types"
)

// Config holds the collection subsystem configuration
type Config struct {
	RunSettingsFile string             // YAML run settings file; ignored when Settings is set
	Settings        *types.RunSettings // Parsed run settings, takes precedence over RunSettingsFile
	DefaultLoadPath string             // Directory relative collector load paths resolve against
	Loader          collector.LoaderFunc
	Source          *events.Source // Engine-owned lifecycle event source
	Log             log.Logger
}

// Check validates the configuration and fills in defaults
func (c *Config) Check() error {
	if c.Loader == nil {
		return errors.New("collector loader is required")
	}
	if c.Source == nil {
		return errors.New("event source is required")
	}
	if c.Log == nil {
		c.Log = log.New()
		c.Log.Error("No logger provided, using default")
	}
	if c.DefaultLoadPath != "" && !filepath.IsAbs(c.DefaultLoadPath) {
		abs, err := filepath.Abs(c.DefaultLoadPath)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path for default load path '%s': %w", c.DefaultLoadPath, err)
		}
		c.DefaultLoadPath = abs
	}
	return nil
}

// resolveSettings returns the run settings from the config, reading the
// settings file when no parsed settings were provided.
func resolveSettings(cfg *Config) (types.RunSettings, error) {
	if cfg.Settings != nil {
		return *cfg.Settings, nil
	}
	if cfg.RunSettingsFile == "" {
		return types.RunSettings{}, nil
	}
	return loadRunSettings(cfg.RunSettingsFile, cfg.Log)
}

// loadRunSettings reads the data-collection run settings from a YAML file.
// A missing file is not an error: it means collection is disabled.
func loadRunSettings(path string, logger log.Logger) (types.RunSettings, error) {
	logger.Debug("Reading run settings file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.RunSettings{}, nil
		}
		return types.RunSettings{}, fmt.Errorf("reading run settings file: %w", err)
	}

	var rs types.RunSettings
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return types.RunSettings{}, fmt.Errorf("parsing run settings file: %w", err)
	}

	return rs, nil
}
