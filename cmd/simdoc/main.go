package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(mainCode())
}

func mainCode() int {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	undo, _ := maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	defer undo()

	ctx, stop := notifyContext(context.Background())
	defer stop()
	return run(ctx, os.Args[1:], DefaultEnv())
}

// run dispatches the command line and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	var err error
	switch args[0] {
	case "build":
		err = runBuild(ctx, args[1:], env, modeBuild)
	case "check":
		err = runBuild(ctx, args[1:], env, modeCheck)
	case "config":
		err = runConfig(args[1:], env)
	case "version", "--version", "-v":
		fmt.Fprintf(env.Stdout, "simdoc %s\n", Version)
	case "help", "--help", "-h":
		runHelp(args[1:], env)
	default:
		err = fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
		printUsage(env.Stderr)
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "simdoc: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}
