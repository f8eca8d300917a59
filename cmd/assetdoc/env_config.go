package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-assetdoc/internal/config"
)

// envPrefix marks the variables this CLI reads.
const envPrefix = "ASSETDOC_"

// envConfig holds configuration from environment variables.
// Provides deployment-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // ASSETDOC_CONFIG: config file name or path
	Document   string // ASSETDOC_DOCUMENT: document path (file backend)
	Storage    string // ASSETDOC_STORAGE: file, memory, s3

	// Tier 2 - Object storage
	S3Endpoint  string // ASSETDOC_S3_ENDPOINT: host[:port]
	S3Region    string // ASSETDOC_S3_REGION
	S3AccessKey string // ASSETDOC_S3_ACCESS_KEY
	S3SecretKey string // ASSETDOC_S3_SECRET_KEY
	S3Bucket    string // ASSETDOC_S3_BUCKET
	S3Key       string // ASSETDOC_S3_KEY: object key of the document
	S3UseSSL    *bool  // ASSETDOC_S3_USE_SSL: true/false

	// Tier 3 - Server, logging and output
	Addr        string // ASSETDOC_ADDR: listen address
	AllowOrigin string // ASSETDOC_ALLOW_ORIGIN: CORS origin
	LogLevel    string // ASSETDOC_LOG_LEVEL
	LogFormat   string // ASSETDOC_LOG_FORMAT: console, json, pretty
	Title       string // ASSETDOC_TITLE: document heading written on save
	DateFormat  string // ASSETDOC_DATE_FORMAT: Generated stamp format
	Style       string // ASSETDOC_STYLE: preview style name
}

// knownEnvVars lists valid ASSETDOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"ASSETDOC_CONFIG":   true,
	"ASSETDOC_DOCUMENT": true,
	"ASSETDOC_STORAGE":  true,
	// Tier 2 - Object storage
	"ASSETDOC_S3_ENDPOINT":   true,
	"ASSETDOC_S3_REGION":     true,
	"ASSETDOC_S3_ACCESS_KEY": true,
	"ASSETDOC_S3_SECRET_KEY": true,
	"ASSETDOC_S3_BUCKET":     true,
	"ASSETDOC_S3_KEY":        true,
	"ASSETDOC_S3_USE_SSL":    true,
	// Tier 3 - Server, logging and output
	"ASSETDOC_ADDR":         true,
	"ASSETDOC_ALLOW_ORIGIN": true,
	"ASSETDOC_LOG_LEVEL":    true,
	"ASSETDOC_LOG_FORMAT":   true,
	"ASSETDOC_TITLE":        true,
	"ASSETDOC_DATE_FORMAT":  true,
	"ASSETDOC_STYLE":        true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized ASSETDOC_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("ASSETDOC_CONFIG"),
		Document:   os.Getenv("ASSETDOC_DOCUMENT"),
		Storage:    os.Getenv("ASSETDOC_STORAGE"),
		// Tier 2
		S3Endpoint:  os.Getenv("ASSETDOC_S3_ENDPOINT"),
		S3Region:    os.Getenv("ASSETDOC_S3_REGION"),
		S3AccessKey: os.Getenv("ASSETDOC_S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("ASSETDOC_S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("ASSETDOC_S3_BUCKET"),
		S3Key:       os.Getenv("ASSETDOC_S3_KEY"),
		// Tier 3
		Addr:        os.Getenv("ASSETDOC_ADDR"),
		AllowOrigin: os.Getenv("ASSETDOC_ALLOW_ORIGIN"),
		LogLevel:    os.Getenv("ASSETDOC_LOG_LEVEL"),
		LogFormat:   os.Getenv("ASSETDOC_LOG_FORMAT"),
		Title:       os.Getenv("ASSETDOC_TITLE"),
		DateFormat:  os.Getenv("ASSETDOC_DATE_FORMAT"),
		Style:       os.Getenv("ASSETDOC_STYLE"),
	}

	// Parse bool for TLS; invalid values are ignored
	if raw := os.Getenv("ASSETDOC_S3_USE_SSL"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			cfg.S3UseSSL = &b
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized ASSETDOC_* variables.
// Helps catch typos like ASSETDOC_S3_BUCKT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays set environment variables onto cfg.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIf := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	// Tier 1
	setIf(&cfg.Document.Path, env.Document)
	setIf(&cfg.Storage.Backend, env.Storage)

	// Tier 2
	setIf(&cfg.Storage.S3.Endpoint, env.S3Endpoint)
	setIf(&cfg.Storage.S3.Region, env.S3Region)
	setIf(&cfg.Storage.S3.AccessKey, env.S3AccessKey)
	setIf(&cfg.Storage.S3.SecretKey, env.S3SecretKey)
	setIf(&cfg.Storage.S3.Bucket, env.S3Bucket)
	setIf(&cfg.Storage.S3.Key, env.S3Key)
	if env.S3UseSSL != nil {
		cfg.Storage.S3.UseSSL = *env.S3UseSSL
	}

	// Tier 3
	setIf(&cfg.Server.Addr, env.Addr)
	setIf(&cfg.Server.AllowOrigin, env.AllowOrigin)
	setIf(&cfg.Logging.Level, env.LogLevel)
	setIf(&cfg.Logging.Format, env.LogFormat)
	setIf(&cfg.Document.Title, env.Title)
	setIf(&cfg.Document.DateFormat, env.DateFormat)
	setIf(&cfg.Preview.Style, env.Style)
}

// resolveConfig loads the config file named by the flag (or ASSETDOC_CONFIG),
// applies environment overrides and validates the result. Without a config
// name the defaults are used.
func resolveConfig(flagValue string, env *envConfig) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
