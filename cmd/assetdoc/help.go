package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetdoc <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  parse      Print a profile document as JSON records")
	fmt.Fprintln(w, "  generate   Write a profile document from JSON records")
	fmt.Fprintln(w, "  set        Change one field of a stored record")
	fmt.Fprintln(w, "  validate   Report malformed sections and payloads")
	fmt.Fprintln(w, "  render     Render a document as an HTML preview")
	fmt.Fprintln(w, "  types      List known asset types")
	fmt.Fprintln(w, "  serve      Run the editor HTTP API")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'assetdoc help <command>' for details on a specific command.")
}

// printCommonFlags prints the flags every command accepts.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show diagnostics and progress")
}

// printParseUsage prints usage for the parse command.
func printParseUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetdoc parse [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parse a profile document and print {\"title\", \"generated\", \"assets\"}")
	fmt.Fprintln(w, "as JSON. Reads stdin when no file is given. Malformed sections are")
	fmt.Fprintln(w, "skipped and reported on stderr.")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetdoc generate [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read {\"assets\": [...]} or a bare [...] list of records and print")
	fmt.Fprintln(w, "the markdown document. Reads stdin when no file is given.")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printSetUsage prints usage for the set command.
func printSetUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetdoc set [file] --index <n> --path <p> --value <v> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assign one field of a record and save the document. Without a file")
	fmt.Fprintln(w, "the configured storage backend is used.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Field:")
	fmt.Fprintln(w, "  -i, --index <n>           Record index (0-based)")
	fmt.Fprintln(w, "  -p, --path <p>            Dot path, e.g. stats.0.value")
	fmt.Fprintln(w, "      --value <v>           Raw value")
	fmt.Fprintln(w, "  -s, --shape <s>           scalar, csv, lines, boolean")
	fmt.Fprintln(w, "      --checked             Checked state for boolean fields")
	fmt.Fprintln(w, "      --strict              Fail instead of replacing mismatched containers")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printValidateUsage prints usage for the validate command.
func printValidateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetdoc validate [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report sections whose JSON block is unreadable and payloads that do")
	fmt.Fprintln(w, "not fit their asset type. Exits 4 when anything is found.")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetdoc render [file] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a document as a standalone HTML page.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output HTML file (default: stdout)")
	fmt.Fprintln(w, "      --style <name>        Preview style (default, print)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printTypesUsage prints usage for the types command.
func printTypesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetdoc types")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List known asset types with their label and editor component.")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetdoc serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the editor API: GET/POST /api/assets, /api/types, /preview.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :4567)")
	fmt.Fprintln(w, "  -d, --document <path>     Document path for the file backend")
	fmt.Fprintln(w, "      --storage <s>         Backend: file, memory, s3")
	fmt.Fprintln(w, "      --static <dir>        Directory served at /")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// usageFor returns the usage printer of a command.
func usageFor(cmd string) func(io.Writer) {
	switch cmd {
	case "parse":
		return printParseUsage
	case "generate":
		return printGenerateUsage
	case "set":
		return printSetUsage
	case "validate":
		return printValidateUsage
	case "render":
		return printRenderUsage
	case "types":
		return printTypesUsage
	case "serve":
		return printServeUsage
	default:
		return nil
	}
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: assetdoc version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: assetdoc help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		usage := usageFor(args[0])
		if usage == nil {
			printUsage(env.Stderr)
			return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
		}
		usage(env.Stdout)
	}
	return nil
}
