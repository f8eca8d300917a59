package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// setFlags holds flags for the set command.
type setFlags struct {
	common  commonFlags
	index   int
	path    string
	value   string
	shape   string
	checked bool
	strict  bool
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common commonFlags
	output string
	style  string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common    commonFlags
	addr      string
	document  string
	storage   string
	staticDir string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show diagnostics and progress")
}

// newFlagSet returns a FlagSet that reports errors instead of exiting and
// prints usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseError wraps a pflag error as a usage error.
func parseError(err error) error {
	if err == flag.ErrHelp {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// parseCommonFlags parses commands that only take the common flags.
func parseCommonFlags(name string, args []string, w io.Writer) (*commonFlags, []string, error) {
	fs := newFlagSet(name, w, usageFor(name))
	f := &commonFlags{}
	addCommonFlags(fs, f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseSetFlags parses set command flags and returns positional args.
func parseSetFlags(args []string, w io.Writer) (*setFlags, []string, error) {
	fs := newFlagSet("set", w, printSetUsage)
	f := &setFlags{}

	fs.IntVarP(&f.index, "index", "i", -1, "record index (0-based)")
	fs.StringVarP(&f.path, "path", "p", "", "dot-separated data path")
	fs.StringVar(&f.value, "value", "", "raw field value")
	fs.StringVarP(&f.shape, "shape", "s", "", "value shape: scalar, csv, lines, boolean")
	fs.BoolVar(&f.checked, "checked", false, "checked state for boolean fields")
	fs.BoolVar(&f.strict, "strict", false, "fail instead of replacing mismatched containers")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, w io.Writer) (*renderFlags, []string, error) {
	fs := newFlagSet("render", w, printRenderUsage)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (default: stdout)")
	fs.StringVar(&f.style, "style", "", "preview style name")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	fs := newFlagSet("serve", w, printServeUsage)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default from config, :4567)")
	fs.StringVarP(&f.document, "document", "d", "", "document path for the file backend")
	fs.StringVar(&f.storage, "storage", "", "storage backend: file, memory, s3")
	fs.StringVar(&f.staticDir, "static", "", "directory served at / (editor UI)")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}
