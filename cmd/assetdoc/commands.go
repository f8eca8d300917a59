package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alnah/go-assetdoc"
	"github.com/alnah/go-assetdoc/internal/assets"
	"github.com/alnah/go-assetdoc/internal/config"
	"github.com/alnah/go-assetdoc/internal/fileutil"
	"github.com/alnah/go-assetdoc/internal/hints"
	"github.com/alnah/go-assetdoc/internal/logging"
	"github.com/alnah/go-assetdoc/internal/server"
	"github.com/alnah/go-assetdoc/internal/storage"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrReadInput      = errors.New("failed to read input")
	ErrWriteOutput    = errors.New("failed to write output")
	ErrInvalidInput   = errors.New("input is not a JSON record list")
	ErrDiagnostics    = errors.New("document has problems")
)

// maxInputBytes caps documents read from files or stdin.
const maxInputBytes = 10 << 20

// readInput reads the named file, or stdin when path is empty or "-".
func readInput(path string, env *Environment) (string, error) {
	var r io.Reader
	if path == "" || path == "-" {
		r = env.Stdin
	} else {
		f, err := os.Open(path) // #nosec G304 -- path is user-provided
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	if r == nil {
		return "", fmt.Errorf("%w: no input", ErrReadInput)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	if len(data) > maxInputBytes {
		return "", fmt.Errorf("%w: input exceeds %d bytes", ErrReadInput, maxInputBytes)
	}
	return string(data), nil
}

// writeOutput writes content to path atomically, or to stdout when path is empty.
func writeOutput(path, content string, env *Environment) error {
	if path == "" {
		if _, err := io.WriteString(env.Stdout, content); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		return nil
	}
	if err := fileutil.WriteFileAtomic(path, []byte(content)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// writeJSON pretty-prints v followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// singleArg returns the optional positional argument of a command.
func singleArg(cmd string, args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: %s takes at most one file, got %d", ErrUsage, cmd, len(args))
	}
}

// loadConfig resolves the configuration and stores it on env.
func loadConfig(flags *commonFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()
	env.ConfigName = flags.config
	if env.ConfigName == "" {
		env.ConfigName = envCfg.ConfigPath
	}
	cfg, err := resolveConfig(flags.config, envCfg)
	if err != nil {
		return nil, err
	}
	env.Config = cfg
	return cfg, nil
}

// generatorFor builds the document generator from cfg.
func generatorFor(cfg *config.Config, env *Environment) assetdoc.Generator {
	return assetdoc.Generator{
		Title:      cfg.Document.Title,
		DateFormat: cfg.Document.DateFormat,
		Now:        env.Now,
	}
}

// storageConfig maps the document and storage config onto storage.Config.
func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Backend: cfg.Storage.Backend,
		Path:    cfg.Document.Path,
		S3:      storage.S3Config(cfg.Storage.S3),
	}
}

// rendererFor builds the preview renderer, honoring a style directory.
func rendererFor(cfg *config.Config, style string) (*assetdoc.Renderer, error) {
	if style == "" {
		style = cfg.Preview.Style
	}
	loader, err := assets.NewResolver(cfg.Preview.StylesDir)
	if err != nil {
		return nil, err
	}
	return assetdoc.NewRenderer(assetdoc.WithStyle(style), assetdoc.WithStyleLoader(loader)), nil
}

// printDiagnostics writes one line per diagnostic to w.
func printDiagnostics(w io.Writer, diags []assetdoc.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "warning: %s\n", d)
	}
}

// ---------------------------------------------------------------------------
// parse
// ---------------------------------------------------------------------------

// runParse prints the document as JSON: {"title", "generated", "assets"}.
func runParse(args []string, env *Environment) error {
	flags, positional, err := parseCommonFlags("parse", args, env.Stdout)
	if err != nil {
		return err
	}
	path, err := singleArg("parse", positional)
	if err != nil {
		return err
	}

	text, err := readInput(path, env)
	if err != nil {
		return err
	}

	doc, diags := assetdoc.ParseDocument(text)
	if !flags.quiet {
		printDiagnostics(env.Stderr, diags)
	}
	if doc.Records == nil {
		doc.Records = []assetdoc.Record{}
	}
	return writeJSON(env.Stdout, doc)
}

// ---------------------------------------------------------------------------
// generate
// ---------------------------------------------------------------------------

// decodeRecords accepts {"assets":[...]} or a bare [...] list.
func decodeRecords(text string) ([]assetdoc.Record, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []assetdoc.Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return records, nil
	}

	var wrapper struct {
		Assets *[]assetdoc.Record `json:"assets"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if wrapper.Assets == nil {
		return nil, fmt.Errorf("%w: missing \"assets\" list", ErrInvalidInput)
	}
	return *wrapper.Assets, nil
}

// runGenerate reads records as JSON and prints the markdown document.
func runGenerate(args []string, env *Environment) error {
	flags, positional, err := parseCommonFlags("generate", args, env.Stdout)
	if err != nil {
		return err
	}
	path, err := singleArg("generate", positional)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags, env)
	if err != nil {
		return err
	}

	text, err := readInput(path, env)
	if err != nil {
		return err
	}
	records, err := decodeRecords(text)
	if err != nil {
		return err
	}

	out, err := generatorFor(cfg, env).Generate(records)
	if err != nil {
		return err
	}
	return writeOutput("", out, env)
}

// ---------------------------------------------------------------------------
// set
// ---------------------------------------------------------------------------

// runSet applies one field to a stored record and saves the document.
func runSet(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseSetFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	path, err := singleArg("set", positional)
	if err != nil {
		return err
	}
	if flags.index < 0 {
		return fmt.Errorf("%w: --index is required", ErrUsage)
	}
	if flags.path == "" {
		return fmt.Errorf("%w: --path is required", ErrUsage)
	}
	shape, err := assetdoc.ParseShape(flags.shape)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}

	if path != "" {
		cfg.Document.Path = path
		cfg.Storage.Backend = storage.BackendFile
	}
	store, err := storage.Open(storageConfig(cfg))
	if err != nil {
		return err
	}

	svc := assetdoc.NewService(store, assetdoc.WithGenerator(generatorFor(cfg, env)))
	field := assetdoc.Field{Path: flags.path, Value: flags.value, Checked: flags.checked, Shape: shape}

	var rec assetdoc.Record
	if flags.strict {
		rec, err = svc.Edit(ctx, flags.index, func(r *assetdoc.Record) error {
			value, err := field.Decode()
			if err != nil {
				return err
			}
			root, err := assetdoc.SetStrict(r.Data, field.Path, value)
			if err != nil {
				return err
			}
			r.Data = root
			return nil
		})
	} else {
		rec, err = svc.SetField(ctx, flags.index, field)
	}
	if err != nil {
		return err
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "updated %s in record %d (%q)\n", flags.path, flags.index, rec.Title)
	}
	if flags.common.quiet {
		return nil
	}
	return writeJSON(env.Stdout, rec)
}

// ---------------------------------------------------------------------------
// validate
// ---------------------------------------------------------------------------

// runValidate reports malformed sections and payloads that do not fit
// their known type. Any finding fails with ErrDiagnostics.
func runValidate(args []string, env *Environment) error {
	flags, positional, err := parseCommonFlags("validate", args, env.Stdout)
	if err != nil {
		return err
	}
	path, err := singleArg("validate", positional)
	if err != nil {
		return err
	}

	text, err := readInput(path, env)
	if err != nil {
		return err
	}

	doc, diags := assetdoc.ParseDocument(text)
	problems := len(diags)
	for _, d := range diags {
		fmt.Fprintf(env.Stdout, "%s%s\n", d, hints.ForMalformedSection())
	}
	for i, rec := range doc.Records {
		if _, err := assetdoc.Decode(rec); err != nil {
			problems++
			fmt.Fprintf(env.Stdout, "record %d (%q): %v\n", i, rec.Title, err)
		}
	}

	if problems > 0 {
		return fmt.Errorf("%w: %d found", ErrDiagnostics, problems)
	}
	if !flags.quiet {
		fmt.Fprintf(env.Stdout, "ok: %d records\n", len(doc.Records))
	}
	return nil
}

// ---------------------------------------------------------------------------
// render
// ---------------------------------------------------------------------------

// runRender converts a document to a standalone HTML preview.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	path, err := singleArg("render", positional)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}

	text, err := readInput(path, env)
	if err != nil {
		return err
	}
	renderer, err := rendererFor(cfg, flags.style)
	if err != nil {
		return err
	}
	html, err := renderer.Render(ctx, text)
	if err != nil {
		return err
	}

	if err := writeOutput(flags.output, html, env); err != nil {
		return err
	}
	if flags.output != "" && !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "wrote %s\n", flags.output)
	}
	return nil
}

// ---------------------------------------------------------------------------
// types
// ---------------------------------------------------------------------------

// runTypes lists the known asset types.
func runTypes(args []string, env *Environment) error {
	_, positional, err := parseCommonFlags("types", args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: types takes no arguments", ErrUsage)
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tLABEL\tCOMPONENT")
	for _, k := range assetdoc.Kinds() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", k.Type, k.Label, k.Component)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// serve
// ---------------------------------------------------------------------------

// mergeServeFlags applies serve flags over cfg (CLI wins).
func mergeServeFlags(flags *serveFlags, cfg *config.Config) {
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.document != "" {
		cfg.Document.Path = flags.document
	}
	if flags.storage != "" {
		cfg.Storage.Backend = flags.storage
	}
}

// runServe runs the HTTP adapter until ctx is cancelled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments", ErrUsage)
	}
	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	mergeServeFlags(flags, cfg)
	if flags.common.verbose {
		cfg.Logging.Level = "debug"
	}

	provider, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
	if err != nil {
		return err
	}

	store, err := storage.Open(storageConfig(cfg))
	if err != nil {
		return err
	}
	renderer, err := rendererFor(cfg, "")
	if err != nil {
		return err
	}

	svc := assetdoc.NewService(store,
		assetdoc.WithGenerator(generatorFor(cfg, env)),
		assetdoc.WithDiagnosticSink(logging.DiagnosticSink(provider.Get("parser"))),
		assetdoc.WithFieldRules(cfg.RulesFor),
	)
	srv := server.New(svc,
		server.WithLogger(provider.Get("server")),
		server.WithAllowOrigin(cfg.Server.AllowOrigin),
		server.WithRenderer(renderer),
		server.WithStaticDir(flags.staticDir),
	)
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}

// ---------------------------------------------------------------------------
// errors
// ---------------------------------------------------------------------------

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, env *Environment) string {
	cfg := env.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(env.ConfigName))
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.EmbeddedStyles())
	case errors.Is(err, assetdoc.ErrUnknownAssetType):
		return hints.ForUnknownAssetType(knownTypes())
	case errors.Is(err, assetdoc.ErrMalformedSectionJSON):
		return hints.ForMalformedSection()
	case errors.Is(err, storage.ErrNotFound):
		if strings.EqualFold(cfg.Storage.Backend, storage.BackendS3) {
			return hints.ForObjectStore(cfg.Storage.S3.Endpoint)
		}
		return hints.ForDocumentNotFound(cfg.Document.Path)
	case errors.Is(err, storage.ErrIO) && strings.EqualFold(cfg.Storage.Backend, storage.BackendS3):
		return hints.ForObjectStore(cfg.Storage.S3.Endpoint)
	}
	return ""
}

// knownTypes lists the registry's type tags.
func knownTypes() []string {
	kinds := assetdoc.Kinds()
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k.Type)
	}
	return out
}
