// Package config loads the YAML configuration of assetdoc.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-assetdoc"
	"github.com/alnah/go-assetdoc/internal/dateutil"
	"github.com/alnah/go-assetdoc/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxInputSize limits the config file size (1MB).
const MaxInputSize = 1 << 20

// AppDir is the directory name under the user config dir.
const AppDir = "go-assetdoc"

// Field length limits.
const (
	MaxPathLength     = 4096
	MaxTitleLength    = 200
	MaxEndpointLength = 255
	MaxBucketLength   = 63 // S3 naming rules
	MaxKeyLength      = 1024
	MaxOriginLength   = 2048
	MaxStyleLength    = 64
)

// Config holds all configuration.
type Config struct {
	Document DocumentConfig `yaml:"document"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Preview  PreviewConfig  `yaml:"preview"`

	// Rules constrain edited fields: asset type -> field path -> rule.
	Rules map[string]map[string]assetdoc.FieldRule `yaml:"rules"`
}

// DocumentConfig locates and formats the profile document.
type DocumentConfig struct {
	Path       string `yaml:"path"`       // file backend location (default: data.md)
	Title      string `yaml:"title"`      // heading written on save
	DateFormat string `yaml:"dateFormat"` // dateutil tokens or preset name
}

// StorageConfig selects the backend.
type StorageConfig struct {
	Backend string   `yaml:"backend"` // "file", "memory", "s3"
	S3      S3Config `yaml:"s3"`
}

// S3Config configures the s3 backend.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	UseSSL    bool   `yaml:"useSSL"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	AllowOrigin  string        `yaml:"allowOrigin"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// LoggingConfig configures go-logger.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"` // "console", "json", "pretty"
	AddSource bool   `yaml:"addSource"`
}

// PreviewConfig configures HTML previews.
type PreviewConfig struct {
	Style     string `yaml:"style"`     // style name (default: "default")
	StylesDir string `yaml:"stylesDir"` // directory overriding embedded styles
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			Path:       "data.md",
			Title:      assetdoc.DefaultDocumentTitle,
			DateFormat: dateutil.DefaultDateFormat,
		},
		Storage: StorageConfig{Backend: "file"},
		Server: ServerConfig{
			Addr:         ":4567",
			AllowOrigin:  "*",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Preview: PreviewConfig{Style: "default"},
	}
}

// RulesFor returns the field rules for an asset type (nil when none).
func (c *Config) RulesFor(assetType string) map[string]assetdoc.FieldRule {
	if c == nil {
		return nil
	}
	return c.Rules[assetType]
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	if err := validateFieldLength("document.path", c.Document.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.title", c.Document.Title, MaxTitleLength); err != nil {
		return err
	}
	if c.Document.DateFormat != "" {
		if err := dateutil.Validate(c.Document.DateFormat); err != nil {
			return fmt.Errorf("%w: document.dateFormat: %v", ErrInvalidValue, err)
		}
	}

	switch strings.ToLower(c.Storage.Backend) {
	case "", "file", "memory":
	case "s3":
		if c.Storage.S3.Endpoint == "" || c.Storage.S3.Bucket == "" {
			return fmt.Errorf("%w: storage.s3.endpoint and storage.s3.bucket are required for the s3 backend", ErrInvalidValue)
		}
	default:
		return fmt.Errorf("%w: storage.backend %q (must be file, memory, or s3)", ErrInvalidValue, c.Storage.Backend)
	}
	if err := validateFieldLength("storage.s3.endpoint", c.Storage.S3.Endpoint, MaxEndpointLength); err != nil {
		return err
	}
	if err := validateFieldLength("storage.s3.bucket", c.Storage.S3.Bucket, MaxBucketLength); err != nil {
		return err
	}
	if err := validateFieldLength("storage.s3.key", c.Storage.S3.Key, MaxKeyLength); err != nil {
		return err
	}

	if err := validateFieldLength("server.allowOrigin", c.Server.AllowOrigin, MaxOriginLength); err != nil {
		return err
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("%w: server timeouts cannot be negative", ErrInvalidValue)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json", "pretty":
	default:
		return fmt.Errorf("%w: logging.format %q (must be console, json, or pretty)", ErrInvalidValue, c.Logging.Format)
	}

	if err := validateFieldLength("preview.style", c.Preview.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("preview.stylesDir", c.Preview.StylesDir, MaxPathLength); err != nil {
		return err
	}

	for assetType, rules := range c.Rules {
		for path, rule := range rules {
			if path == "" {
				return fmt.Errorf("%w: rules.%s: empty field path", ErrInvalidValue, assetType)
			}
			if rule.MinLength < 0 || rule.MaxLength < 0 {
				return fmt.Errorf("%w: rules.%s.%s: negative length", ErrInvalidValue, assetType, path)
			}
		}
	}
	return nil
}

// validateFieldLength returns ErrFieldTooLong when value exceeds maxLength.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// A name (no path separator) is searched as <name>.yaml|.yml in the
// current directory, then in the user config directory. Values absent
// from the file keep their defaults. Unknown keys are rejected.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
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

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigParse, len(data), MaxInputSize)
	}
	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists where LoadConfig looks for a config name.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
