package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Missing .env is the common case; real values win over it.
	_ = godotenv.Load()

	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if isVerbose(os.Args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// isVerbose reports whether -v or --verbose appears in args.
func isVerbose(args []string) bool {
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}

// runMain dispatches to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	if cmd != "help" && cmd != "version" {
		warnUnknownEnvVars(env.Stderr)
	}

	err := runCommand(ctx, cmd, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, env))
		if errors.Is(err, ErrUnknownCommand) && cmd != "help" {
			printUsage(env.Stderr)
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runCommand runs one command by name.
func runCommand(ctx context.Context, cmd string, args []string, env *Environment) error {
	switch cmd {
	case "parse":
		return runParse(args, env)
	case "generate":
		return runGenerate(args, env)
	case "set":
		return runSet(ctx, args, env)
	case "validate":
		return runValidate(args, env)
	case "render":
		return runRender(ctx, args, env)
	case "types":
		return runTypes(args, env)
	case "serve":
		return runServe(ctx, args, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "assetdoc %s\n", Version)
		return nil
	case "help", "-h", "--help":
		return runHelp(args, env)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}
