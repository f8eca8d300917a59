// Package logging wires go-logger for the server and the diagnostic sink.
package logging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/alnah/go-assetdoc"
)

// ErrUnsupportedFormat is returned for an unknown output format.
var ErrUnsupportedFormat = errors.New("unsupported log format")

// Formats accepted by Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatPretty  = "pretty"
)

// Config selects level and output format.
type Config struct {
	Level     string
	Format    string
	AddSource bool
}

// Provider hands out named child loggers sharing one root.
type Provider struct {
	root *glog.BaseLogger
}

// New builds a Provider. An empty format is console, an empty or unknown
// level keeps the go-logger default.
func New(cfg Config) (*Provider, error) {
	options := []glog.Option{}

	if level := NormalizeLevel(cfg.Level); level != "" {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", FormatConsole:
		options = append(options, glog.WithLoggerTypeConsole())
	case FormatJSON:
		options = append(options, glog.WithLoggerTypeJSON())
	case FormatPretty:
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	return &Provider{root: glog.NewLogger(options...)}, nil
}

// Get returns the logger for a component ("server", "parser").
// A nil Provider yields a logger that drops everything.
func (p *Provider) Get(name string) glog.Logger {
	if p == nil {
		return Nop()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return p.root
	}
	return p.root.GetLogger(name)
}

// NormalizeLevel maps user level names onto go-logger levels; "" when
// the name is not recognized.
func NormalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "info":
		return glog.Info
	case "warn", "warning":
		return glog.Warn
	case "error":
		return glog.Error
	case "fatal":
		return glog.Fatal
	}
	return ""
}

// DiagnosticSink reports dropped sections at WARN on l.
func DiagnosticSink(l glog.Logger) func(assetdoc.Diagnostic) {
	return func(d assetdoc.Diagnostic) {
		l.Warn("section skipped",
			"section", d.Section,
			"title", d.Title,
			"error", d.Err.Error(),
		)
	}
}

// Nop returns a logger that discards everything.
func Nop() glog.Logger { return nopLogger{} }

type nopLogger struct{}

var _ glog.Logger = nopLogger{}

func (nopLogger) Trace(string, ...any) {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Fatal(string, ...any) {}

func (n nopLogger) WithContext(context.Context) glog.Logger { return n }
