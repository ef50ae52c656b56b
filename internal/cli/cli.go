// Package cli provides command-line interface functionality for xmldiff.
package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/xmldiff/internal/errors"
	"github.com/AndreyAkinshin/xmldiff/internal/logging"
	"github.com/AndreyAkinshin/xmldiff/internal/output"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help before any -- separator.
// Arguments after -- are treated as operands, so help flags there are ignored.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 0
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return 0
	case "--version", "version":
		out.Println("xmldiff %s", Version)
		return 0
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	// Re-extract command after flag parsing
	if len(remaining) == 0 {
		printUsage()
		return 0
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	case "diff":
		return cmdDiff(cmdArgs, opts)
	case "check":
		return cmdCheck(cmdArgs, opts)
	case "prepare":
		return cmdPrepare(cmdArgs, opts)
	case "config":
		return cmdConfig(cmdArgs)
	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Errorln("  run 'xmldiff --help' for usage")
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Quiet    bool
	Verbose  bool
	LogLevel string
}

// parseGlobalFlags manually parses global flags from arguments.
//
// Global flags may appear anywhere in the argument list, so the stdlib flag
// package (which stops at the first operand) is not used here.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--log-level":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("--log-level requires a value")
			}
			opts.LogLevel = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--log-level="):
			opts.LogLevel = strings.TrimPrefix(arg, "--log-level=")
			i++
		case arg == "--":
			// Everything after -- is kept verbatim
			remaining = append(remaining, args[i:]...)
			i = len(args)
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if err := validateGlobalOptions(opts); err != nil {
		return nil, nil, err
	}

	applyVerbosityToOutput(opts)

	return opts, remaining, nil
}

// validateGlobalOptions checks that global options are valid.
func validateGlobalOptions(opts *GlobalOptions) error {
	if opts.Quiet && opts.Verbose {
		return fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	if opts.LogLevel != "" && !logging.ValidLevel(opts.LogLevel) {
		return fmt.Errorf("invalid --log-level value %q\n  valid values: debug, info, warn, error", opts.LogLevel)
	}
	return nil
}

func printUsage() {
	w := out

	w.HelpTitle("xmldiff - tolerant XML golden-file comparison")

	w.HelpSection("Usage:")
	w.HelpUsage("xmldiff <command> [flags] [args]")

	w.HelpSection("Commands:")
	w.HelpCommand("diff <gold> <test>", "Compare XML file pairs with numeric tolerance", helpCommandWidth)
	w.HelpCommand("check [dir...]", "Run the xmldiff checks of every test spec", helpCommandWidth)
	w.HelpCommand("prepare [dir...]", "Remove stale test outputs before a run", helpCommandWidth)
	w.HelpCommand("config validate", "Validate the project configuration", helpCommandWidth)
	w.HelpCommand("config show", "Show the effective comparison settings", helpCommandWidth)
	w.HelpCommand("version", "Show version information", helpCommandWidth)

	printGlobalFlags(w)

	w.HelpSection("Examples:")
	w.HelpExample("xmldiff diff gold/out.vtu out.vtu", "Compare one output against its gold copy")
	w.HelpExample("xmldiff check", "Run every test spec under the tests directory")
	w.HelpExample("xmldiff check --junit=report.xml tests/vtk", "Run one directory and write a JUnit report")
	w.Println("")
}

func printGlobalFlags(w *output.Writer) {
	w.HelpSection("Global Flags:")
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", helpFlagWidthGlobal)
	w.HelpFlag("-v, --verbose", "Maximum detail, including per-file progress", helpFlagWidthGlobal)
	w.HelpFlag("--log-level=<lvl>", "Diagnostic log level (debug, info, warn, error)", helpFlagWidthGlobal)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthGlobal)
	w.HelpFlag("--version", "Show version", helpFlagWidthGlobal)
}
