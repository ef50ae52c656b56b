package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/borud/broker"

	"github.com/AndreyAkinshin/xmldiff/internal/errors"
	"github.com/AndreyAkinshin/xmldiff/internal/events"
	"github.com/AndreyAkinshin/xmldiff/internal/junit"
	"github.com/AndreyAkinshin/xmldiff/internal/tester"
)

// progressDrainTimeout bounds the wait for queued progress events after a run.
const progressDrainTimeout = 2 * time.Second

// checkOptions holds the parsed arguments of the check command.
type checkOptions struct {
	scaling bool
	junit   string
	dirs    []string
}

func parseCheckArgs(args []string) (*checkOptions, error) {
	c := &checkOptions{}

	i := 0
	for i < len(args) {
		arg := args[i]
		if arg == "--scaling" {
			c.scaling = true
			i++
			continue
		}
		if v, ok, err := takeValue(args, &i, "junit"); ok {
			if err != nil {
				return nil, err
			}
			if v == "" {
				return nil, fmt.Errorf("--junit requires a path")
			}
			c.junit = v
			continue
		}
		if isFlag(arg) {
			return nil, fmt.Errorf("unknown flag %q", arg)
		}
		c.dirs = append(c.dirs, arg)
		i++
	}
	return c, nil
}

// cmdCheck compares the outputs of every discovered test against its gold
// copies.
func cmdCheck(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCheckUsage()
		return 0
	}

	c, err := parseCheckArgs(args)
	if err != nil {
		out.ErrorPrefix("check: %v", err)
		return errors.ExitConfigError
	}

	proj, exitCode := loadProjectOrDefault()
	if proj == nil {
		return exitCode
	}
	specs, exitCode := loadSpecs(proj, c.dirs)
	if exitCode != 0 {
		return exitCode
	}
	if len(specs) == 0 {
		out.Warning("no %s files found", proj.Config.SpecFile)
		return 0
	}

	logger := newLogger(opts, false)

	var b *broker.Broker
	var p *progress
	if out.Verbose() {
		b = events.NewBroker()
		if p, err = startProgress(b); err != nil {
			logger.Warn("progress reporting disabled", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	x := tester.New(b, logger)
	tests, sum := x.RunSuite(ctx, specs, tester.Options{Scaling: c.scaling || proj.Config.Scaling})
	switch {
	case p != nil:
		p.stop()
	case b != nil:
		b.Shutdown()
	}

	printTestResults(tests)
	printCheckSummary(tests, sum)

	if c.junit != "" {
		report := junit.Build("xmldiff", proj.Root, tests)
		if err := junit.WriteFile(c.junit, report); err != nil {
			out.ErrorPrefix("write junit report: %v", err)
			return errors.ExitRuntimeError
		}
		out.Info("JUnit report written to %s", c.junit)
	}

	return checkExitCode(tests)
}

// checkExitCode returns ExitDiffFailed when any test failed its diff, and
// ExitRuntimeError when any test failed otherwise.
func checkExitCode(tests []*tester.Test) int {
	code := errors.ExitSuccess
	for _, t := range tests {
		switch {
		case t.Status == tester.StatusDiff:
			return errors.ExitDiffFailed
		case t.Status.Failed():
			code = errors.ExitRuntimeError
		}
	}
	return code
}

func printTestResults(tests []*tester.Test) {
	for _, t := range tests {
		if out.Quiet() && !t.Status.Failed() {
			continue
		}
		if t.Output != "" {
			out.TestStart(t.Spec.Name)
			out.Report(t.Output)
		}
		out.TestResult(t.Spec.Name, t.Status.String(), !t.Status.Failed(), formatDuration(t.Duration), t.Reason)
	}
}

// progressDone marks the end of a run on the events topic.
type progressDone struct{}

// progress prints lifecycle events as they arrive.
type progress struct {
	broker *broker.Broker
	done   chan struct{}
}

func startProgress(b *broker.Broker) (*progress, error) {
	sub, err := b.Subscribe(events.TopicTests)
	if err != nil {
		return nil, err
	}

	// Messages blocks until the subscription is registered, so no event of
	// the run is published before the printer listens.
	msgs := sub.Messages()

	p := &progress{broker: b, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		for msg := range msgs {
			switch evt := msg.Payload.(type) {
			case events.EventTestStarted:
				out.Progress("[%s] comparing %d file(s)", evt.Name, evt.Files)
			case events.EventFileCompared:
				switch {
				case evt.ErrorKind != "":
					out.Progress("[%s] %s: %s error", evt.Test, evt.File, evt.ErrorKind)
				case evt.Pass:
					out.Progress("[%s] %s: ok", evt.Test, evt.File)
				default:
					out.Progress("[%s] %s: %d mismatch(es)", evt.Test, evt.File, evt.Mismatches)
				}
			case events.EventTestSkipped:
				out.Progress("[%s] skipped: %s", evt.Name, evt.Reason)
			case events.EventTestFinished:
				out.Progress("[%s] %s in %s", evt.Name, evt.Status, formatDuration(evt.Duration))
			case progressDone:
				return
			}
		}
	}()
	return p, nil
}

// stop publishes the end marker, waits for earlier events to be printed and
// shuts the broker down, which ends the subscription.
func (p *progress) stop() {
	defer p.broker.Shutdown()
	if err := p.broker.Publish(events.TopicTests, progressDone{}, events.PublishTimeout); err != nil {
		return
	}
	select {
	case <-p.done:
	case <-time.After(progressDrainTimeout):
	}
}

func printCheckUsage() {
	w := out

	w.HelpTitle("xmldiff check - compare test outputs against gold copies")

	w.HelpSection("Usage:")
	w.HelpUsage("xmldiff check [flags] [dir...]")

	w.HelpSection("Description:")
	w.Println("  Finds every test spec below the given directories (default: tests_dir),")
	w.Println("  and compares each listed output with the copy in the test's gold")
	w.Println("  directory. A test stops at its first differing file; other tests")
	w.Println("  still run.")

	w.HelpSection("Flags:")
	w.HelpFlag("--scaling", "Scaling mode: skip tests marked scale_refine", helpFlagWidthLong)
	w.HelpFlag("--junit=<path>", "Write a JUnit XML report", helpFlagWidthLong)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthLong)

	w.HelpSection("Exit Codes:")
	w.HelpCommand("0", "All tests passed or were skipped", 4)
	w.HelpCommand("1", "A test failed without a diff (for example, canceled)", 4)
	w.HelpCommand("2", "Invalid configuration or test spec", 4)
	w.HelpCommand("3", "Missing directory or project", 4)
	w.HelpCommand("129", "At least one test failed its XML diff", 4)

	w.HelpSection("Examples:")
	w.HelpExample("xmldiff check", "Check all tests")
	w.HelpExample("xmldiff check -v tests/vtk", "Check one directory with progress")
	w.HelpExample("xmldiff check --junit=build/xmldiff.xml", "Write a CI report")
	w.Println("")
}
