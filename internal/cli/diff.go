package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/xmldiff/internal/errors"
	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

// diffOptions holds the parsed arguments of the diff command.
type diffOptions struct {
	cfg   xmldiff.Config
	json  bool
	pairs []xmldiff.Pair
}

// parseDiffArgs parses diff flags and operands. Flag values override base.
// --ignore adds to the configured ignore list.
func parseDiffArgs(args []string, base xmldiff.Config) (*diffOptions, error) {
	d := &diffOptions{cfg: base}
	var operands []string

	i := 0
	for i < len(args) {
		arg := args[i]
		if arg == "--" {
			operands = append(operands, args[i+1:]...)
			break
		}
		if arg == "--json" {
			d.json = true
			i++
			continue
		}

		if v, ok, err := takeValue(args, &i, "abs-zero"); ok {
			if err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid --abs-zero value %q", v)
			}
			d.cfg.AbsZero = f
			continue
		}
		if v, ok, err := takeValue(args, &i, "rel-err"); ok {
			if err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid --rel-err value %q", v)
			}
			d.cfg.RelTol = f
			continue
		}
		if v, ok, err := takeValue(args, &i, "ignore"); ok {
			if err != nil {
				return nil, err
			}
			for _, name := range strings.Split(v, ",") {
				if name = strings.TrimSpace(name); name != "" {
					d.cfg.IgnoredAttributes = append(d.cfg.IgnoredAttributes, name)
				}
			}
			continue
		}
		if v, ok, err := takeValue(args, &i, "max-depth"); ok {
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid --max-depth value %q", v)
			}
			d.cfg.MaxDepth = n
			continue
		}

		if isFlag(arg) {
			return nil, fmt.Errorf("unknown flag %q", arg)
		}
		operands = append(operands, arg)
		i++
	}

	if len(operands) == 0 || len(operands)%2 != 0 {
		return nil, fmt.Errorf("expected <gold> <test> pairs, got %d path(s)", len(operands))
	}
	for j := 0; j < len(operands); j += 2 {
		d.pairs = append(d.pairs, xmldiff.Pair{Gold: operands[j], Test: operands[j+1]})
	}

	if err := xmldiff.ValidateConfig(d.cfg); err != nil {
		return nil, err
	}
	return d, nil
}

// cmdDiff compares gold/test file pairs. Every pair is compared even after
// a failure.
func cmdDiff(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printDiffUsage()
		return 0
	}

	proj, exitCode := loadProjectOrDefault()
	if proj == nil {
		return exitCode
	}

	d, err := parseDiffArgs(args, proj.Config.DiffConfig())
	if err != nil {
		out.ErrorPrefix("diff: %v", err)
		return errors.ExitConfigError
	}

	logger := newLogger(opts, d.json)
	results := xmldiff.RunAll(d.pairs, d.cfg)

	failed := 0
	for _, res := range results {
		if res.Fail() {
			failed++
		}
		if res.Err != nil {
			logger.Warn("comparison did not complete",
				"gold", res.GoldPath, "test", res.TestPath,
				"error_kind", res.ErrorKind(), "error", res.Err)
		}
	}

	if d.json {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			out.ErrorPrefix("encode results: %v", err)
			return errors.ExitRuntimeError
		}
		out.Println("%s", data)
	} else {
		for _, res := range results {
			if out.Quiet() && !res.Fail() {
				continue
			}
			out.Report(res.Message())
		}
		if len(results) > 1 {
			printDiffSummary(results)
		}
	}

	if failed > 0 {
		return errors.ExitRuntimeError
	}
	return errors.ExitSuccess
}

func printDiffUsage() {
	w := out

	w.HelpTitle("xmldiff diff - compare XML files with numeric tolerance")

	w.HelpSection("Usage:")
	w.HelpUsage("xmldiff diff [flags] <gold> <test> [<gold> <test>...]")

	w.HelpSection("Description:")
	w.Println("  Compares each test file against its gold copy. Numbers, including")
	w.Println("  whitespace-separated number lists, are equal within the absolute and")
	w.Println("  relative tolerances. All pairs are compared; the exit code is 1 if any")
	w.Println("  pair differs or cannot be read.")

	w.HelpSection("Flags:")
	w.HelpFlag("--abs-zero=<f>", fmt.Sprintf("Absolute zero cutoff (default %s)", formatFloat(xmldiff.DefaultAbsZero)), helpFlagWidthLong)
	w.HelpFlag("--rel-err=<f>", fmt.Sprintf("Relative tolerance (default %s)", formatFloat(xmldiff.DefaultRelTol)), helpFlagWidthLong)
	w.HelpFlag("--ignore=<names>", "Comma-separated attribute names to skip", helpFlagWidthLong)
	w.HelpFlag("--max-depth=<n>", fmt.Sprintf("Element nesting limit (default %d)", xmldiff.DefaultMaxDepth), helpFlagWidthLong)
	w.HelpFlag("--json", "Print results as JSON", helpFlagWidthLong)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthLong)

	w.HelpSection("Examples:")
	w.HelpExample("xmldiff diff gold/out.vtu out.vtu", "Compare one pair")
	w.HelpExample("xmldiff diff --rel-err=1e-4 --ignore=offset g1.xml t1.xml g2.xml t2.xml", "Compare two pairs with looser settings")
	w.HelpExample("xmldiff diff --json gold/out.vtu out.vtu", "Machine-readable output")
	w.Println("")
}
