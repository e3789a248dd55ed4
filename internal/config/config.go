// Package config loads runtime settings for the stitch server.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/page-stitch-mcp/internal/imaging"
	"github.com/ironsheep/page-stitch-mcp/internal/locate"
	"github.com/ironsheep/page-stitch-mcp/internal/logging"
)

// Environment variables read by Load.
const (
	EnvConfigPath   = "STITCH_MCP_CONFIG"
	EnvLogLevel     = "STITCH_MCP_LOG_LEVEL"
	EnvOutputDir    = "STITCH_MCP_OUTPUT_DIR"
	EnvMaxDimension = "STITCH_MCP_MAX_DIMENSION"
)

// DefaultPath is the config file looked up when EnvConfigPath is unset.
const DefaultPath = "config.json"

// Config represents the configuration file structure
type Config struct {
	LogLevel string `json:"log_level" yaml:"log_level"`

	// OutputDir is prepended to relative output paths.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MaxDimension caps output surface width and height. It can lower the
	// platform ceiling but never raise it.
	MaxDimension int `json:"max_dimension" yaml:"max_dimension"`

	// Matchers are site-specific scroll subjects, tried before the generic
	// locators.
	Matchers []locate.MatchLocator `json:"matchers" yaml:"matchers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:     logging.LevelInfo,
		MaxDimension: imaging.MaxDimension,
	}
}

// Load builds the configuration from defaults, an optional JSON file, and
// environment variables, in that order of precedence (env wins).
//
// An empty path means EnvConfigPath, then DefaultPath. Files ending in .yaml
// or .yml are read as YAML, anything else as JSON. A missing file is not an
// error; a file that exists but cannot be parsed is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath
	}

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil && err != io.EOF {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		decoder := json.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(c); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvMaxDimension); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxDimension, v, err)
		}
		c.MaxDimension = n
	}
	return nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = logging.LevelInfo
	}
	if c.MaxDimension <= 0 || c.MaxDimension > imaging.MaxDimension {
		c.MaxDimension = imaging.MaxDimension
	}
}

// ResolveOutputPath joins a relative output path onto OutputDir. Absolute
// paths and paths with no configured OutputDir are returned unchanged.
func ResolveOutputPath(outputPath string, cfg *Config) string {
	if outputPath == "" || filepath.IsAbs(outputPath) {
		return outputPath
	}
	if cfg != nil && cfg.OutputDir != "" {
		return filepath.Join(cfg.OutputDir, outputPath)
	}
	return outputPath
}
