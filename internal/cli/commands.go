package cli

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AndreyAkinshin/xmldiff/internal/errors"
	"github.com/AndreyAkinshin/xmldiff/internal/logging"
	"github.com/AndreyAkinshin/xmldiff/internal/output"
	"github.com/AndreyAkinshin/xmldiff/internal/project"
	"github.com/AndreyAkinshin/xmldiff/internal/tester"
	"github.com/AndreyAkinshin/xmldiff/internal/testspec"
	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

// out is the shared output writer for CLI commands.
var out = output.New()

// Help text alignment widths for consistent formatting.
const (
	helpFlagWidthShort  = 10 // Width for short flags like "-h, --help"
	helpFlagWidthGlobal = 18 // Width for global flags like "--log-level=<lvl>"
	helpFlagWidthLong   = 16 // Width for command flags like "--abs-zero=<f>"
	helpCommandWidth    = 18 // Width for top-level commands
)

// applyVerbosityToOutput configures the output writer based on verbosity settings.
func applyVerbosityToOutput(opts *GlobalOptions) {
	out.SetQuiet(opts.Quiet)
	out.SetVerbose(opts.Verbose)
}

// newLogger installs the process logger for a command. -v lowers the level to
// debug unless --log-level names one explicitly.
func newLogger(opts *GlobalOptions, jsonFormat bool) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	if opts.LogLevel != "" {
		level = logging.ParseLevel(opts.LogLevel)
	}
	return logging.Init(jsonFormat, level)
}

// loadProject loads the project enclosing the working directory and handles
// errors uniformly. Returns nil and an exit code on failure.
func loadProject() (*project.Project, int) {
	proj, err := project.LoadProject()
	if stderrors.Is(err, project.ErrNoProjectRoot) {
		out.ErrorPrefix("%v", err)
		return nil, errors.ExitEnvironmentError
	}
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, errors.ExitConfigError
	}
	return proj, 0
}

// loadProjectOrDefault is like loadProject but falls back to the default
// configuration outside a project.
func loadProjectOrDefault() (*project.Project, int) {
	wd, err := os.Getwd()
	if err != nil {
		out.ErrorPrefix("cannot determine working directory: %v", err)
		return nil, errors.ExitEnvironmentError
	}
	proj, err := project.LoadOrDefault(wd)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, errors.ExitConfigError
	}
	for _, w := range proj.Warnings {
		out.Warning("%s", w)
	}
	return proj, 0
}

// loadSpecs discovers and loads the test specs below dirs, or below the
// project's tests directory when dirs is empty.
func loadSpecs(proj *project.Project, dirs []string) ([]*testspec.Spec, int) {
	if len(dirs) == 0 {
		dirs = []string{proj.TestsDirectory()}
	}

	var files []string
	seen := make(map[string]bool)
	for _, dir := range dirs {
		found, err := project.DiscoverSpecFiles(dir, proj.Config.SpecFile, proj.Config.GoldDir)
		if err != nil {
			out.ErrorPrefix("cannot search %s: %v", dir, err)
			return nil, errors.ExitEnvironmentError
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	specs, err := testspec.LoadAll(files, proj.Config)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, errors.ExitConfigError
	}
	return specs, 0
}

// takeValue reads the value of a "--name=value" or "--name value" flag at
// args[*i], advancing *i past it. matched is false when args[*i] is a
// different argument.
func takeValue(args []string, i *int, name string) (value string, matched bool, err error) {
	arg := args[*i]
	flag := "--" + name
	if arg == flag {
		if *i+1 >= len(args) {
			return "", true, fmt.Errorf("%s requires a value", flag)
		}
		value = args[*i+1]
		*i += 2
		return value, true, nil
	}
	if strings.HasPrefix(arg, flag+"=") {
		*i++
		return strings.TrimPrefix(arg, flag+"="), true, nil
	}
	return "", false, nil
}

// isFlag reports whether arg looks like a flag rather than an operand.
func isFlag(arg string) bool {
	return len(arg) > 1 && strings.HasPrefix(arg, "-")
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// cmdPrepare removes stale outputs of every test that asks for it.
func cmdPrepare(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printPrepareUsage()
		return 0
	}
	for _, arg := range args {
		if isFlag(arg) {
			out.ErrorPrefix("prepare: unknown flag %q", arg)
			return errors.ExitConfigError
		}
	}

	proj, exitCode := loadProjectOrDefault()
	if proj == nil {
		return exitCode
	}
	specs, exitCode := loadSpecs(proj, args)
	if exitCode != 0 {
		return exitCode
	}

	x := tester.New(nil, newLogger(opts, false))
	if err := x.PrepareSuite(specs); err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	cleaned := 0
	for _, s := range specs {
		if s.DeleteOutput() {
			cleaned++
		}
	}
	out.Info("Prepared %d of %d tests.", cleaned, len(specs))
	return 0
}

// cmdConfig dispatches the config subcommands.
func cmdConfig(args []string) int {
	if len(args) == 0 {
		out.ErrorPrefix("config: subcommand required (validate, show)")
		return errors.ExitConfigError
	}

	switch args[0] {
	case "validate":
		return cmdConfigValidate()
	case "show":
		return cmdConfigShow()
	case "-h", "--help":
		printConfigUsage()
		return 0
	default:
		out.ErrorPrefix("config: unknown subcommand %q", args[0])
		return errors.ExitConfigError
	}
}

func cmdConfigValidate() int {
	proj, exitCode := loadProject()
	if proj == nil {
		return exitCode
	}

	for _, w := range proj.Warnings {
		out.Warning("%s", w)
	}

	out.ValidationSuccess("Configuration is valid.")
	out.SummaryItem("Config", proj.ConfigPath())
	out.SummaryItem("Tests", proj.TestsDirectory())
	out.SummaryItem("Spec file", proj.Config.SpecFile)
	if len(proj.Warnings) > 0 {
		out.SummaryItem("Warnings", fmt.Sprintf("%d", len(proj.Warnings)))
	}
	return 0
}

func cmdConfigShow() int {
	proj, exitCode := loadProjectOrDefault()
	if proj == nil {
		return exitCode
	}

	cfg := proj.Config
	diff := cfg.DiffConfig()
	rows := [][]string{
		{"abs_zero", formatFloat(diff.AbsZero)},
		{"rel_err", formatFloat(diff.RelTol)},
		{"ignored_attributes", strings.Join(xmldiff.EffectiveIgnoreSet(diff.IgnoredAttributes), ", ")},
		{"max_depth", strconv.Itoa(diff.MaxDepth)},
		{"gold_dir", cfg.GoldDir},
		{"tests_dir", cfg.TestsDir},
		{"spec_file", cfg.SpecFile},
		{"scaling", strconv.FormatBool(cfg.Scaling)},
		{"delete_output_before_running", strconv.FormatBool(cfg.DeleteOutputBeforeRunning)},
	}
	out.Table([]string{"Setting", "Value"}, rows)

	source := "built-in defaults"
	if _, err := os.Stat(proj.ConfigPath()); err == nil {
		source = proj.ConfigPath()
	}
	out.Info("")
	out.Info("Source: %s", source)
	return 0
}

func printConfigUsage() {
	w := out

	w.HelpTitle("xmldiff config - configuration utilities")

	w.HelpSection("Usage:")
	w.HelpUsage("xmldiff config <subcommand>")

	w.HelpSection("Subcommands:")
	w.HelpCommand("validate", "Validate the project configuration", helpFlagWidthShort)
	w.HelpCommand("show", "Show the effective settings", helpFlagWidthShort)

	w.HelpSection("Options:")
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthShort)

	w.HelpSection("Examples:")
	w.HelpExample("xmldiff config validate", "Validate .xmldiff/config.json")
	w.HelpExample("xmldiff config show", "Print tolerances and directories in effect")
	w.Println("")
}

func printPrepareUsage() {
	w := out

	w.HelpTitle("xmldiff prepare - remove stale test outputs")

	w.HelpSection("Usage:")
	w.HelpUsage("xmldiff prepare [dir...]")

	w.HelpSection("Description:")
	w.Println("  For every test with delete_output_before_running set, removes the")
	w.Println("  output files listed under xmldiff so a failed run cannot leave stale")
	w.Println("  outputs that pass the next check.")

	w.HelpSection("Arguments:")
	w.HelpFlag("[dir...]", "Directories to search for test specs (default: tests_dir)", helpFlagWidthShort)

	w.HelpSection("Examples:")
	w.HelpExample("xmldiff prepare", "Clean outputs of all tests")
	w.HelpExample("xmldiff prepare tests/vtk", "Clean outputs below tests/vtk")
	w.Println("")
}
