package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: simdoc <command> [flags] [source]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Render every page to the destination")
	fmt.Fprintln(w, "  check      Tokenize every page and report errors")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'simdoc help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build, check and config commands.
func printBuildUsage(w io.Writer, name string) {
	fmt.Fprintf(w, "Usage: simdoc %s [flags] [source]\n", name)
	fmt.Fprintln(w)
	switch name {
	case "check":
		fmt.Fprintln(w, "Tokenize every page without rendering and report markup errors.")
	case "config":
		fmt.Fprintln(w, "Print the configuration after applying the config file and flags.")
	default:
		fmt.Fprintln(w, "Render every page of the source directory to the destination.")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  source    Content directory (overrides the config sources)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, newBuildFlagSet(name, &buildFlags{}).FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0  success")
	fmt.Fprintln(w, "  2  invalid flags, config or extensions")
	fmt.Fprintln(w, "  3  sources not found")
	fmt.Fprintln(w, "  4  browser failure (--pdf)")
	fmt.Fprintln(w, "  5  the build recorded errors")
}

// runHelp implements the help command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}
	switch args[0] {
	case "build", "check", "config":
		printBuildUsage(env.Stdout, args[0])
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
	}
}
