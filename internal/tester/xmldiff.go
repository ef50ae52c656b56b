package tester

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/borud/broker"

	"github.com/AndreyAkinshin/xmldiff/internal/config"
	xerrors "github.com/AndreyAkinshin/xmldiff/internal/errors"
	"github.com/AndreyAkinshin/xmldiff/internal/events"
	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

// Skip reasons.
const (
	ReasonChecksDisabled = "CHECKS DISABLED"
	ReasonScaling        = "SCALING"
	ReasonDiff           = "XMLDIFF"
)

// Options are the run-wide settings that affect whether checks run.
type Options struct {
	Scaling bool // scaling mode; tests marked scale_refine skip their diffs
}

// XMLDiff compares a test's output files against their gold copies.
type XMLDiff struct {
	broker *broker.Broker
	logger *slog.Logger
}

// New creates an XMLDiff tester. The broker is optional; when set, lifecycle
// events are published to events.TopicTests.
func New(b *broker.Broker, logger *slog.Logger) *XMLDiff {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &XMLDiff{
		broker: b,
		logger: logger,
	}
}

// Prepare removes stale outputs listed by the test when the test asks for
// it. Names must stay inside the test directory; a missing output is not an
// error.
func (x *XMLDiff) Prepare(t *Test) error {
	spec := t.Spec
	if !spec.DeleteOutput() {
		return nil
	}

	for i, name := range spec.XMLDiff {
		if err := config.ValidateRelativePath("xmldiff", name); err != nil {
			return &xerrors.Error{
				Kind:    xerrors.KindValidation,
				Test:    spec.Name,
				File:    name,
				Message: err.Error(),
				Cause:   err,
			}
		}
		path := filepath.Join(spec.Dir, name)
		x.logger.Debug("removing stale output", "test", spec.Name, "index", i, "path", path)
		if err := os.RemoveAll(path); err != nil {
			return &xerrors.Error{
				Kind:    xerrors.KindEnvironment,
				Test:    spec.Name,
				File:    name,
				Message: "failed to remove output",
				Cause:   err,
			}
		}
	}
	return nil
}

// ProcessResults compares each listed output against its gold copy and
// appends every report to output. It stops at the first failing file and
// marks the test XMLDIFF. Checks are skipped, and output returned as is,
// when the test already failed, when its checks are disabled, or in scaling
// mode for scale_refine tests.
func (x *XMLDiff) ProcessResults(ctx context.Context, t *Test, opts Options, output string) string {
	spec := t.Spec
	log := x.logger.With("test", spec.Name)

	if t.Status.Failed() {
		log.Debug("skipping checks after earlier failure", "status", t.Status.String())
		t.Output = output
		return output
	}
	if reason := skipReason(t, opts); reason != "" {
		if t.Status == StatusNone {
			t.SetStatus(StatusSkip, reason)
		}
		log.Info("checks skipped", "reason", reason)
		x.publish(events.EventTestSkipped{Name: spec.Name, Reason: reason})
		t.Output = output
		return output
	}

	start := time.Now()
	x.publish(events.EventTestStarted{Name: spec.Name, Files: len(spec.XMLDiff)})

	cfg := spec.DiffConfig()
	failed := false
	for _, name := range spec.XMLDiff {
		gold := filepath.Join(spec.Dir, spec.GoldDir, name)
		test := filepath.Join(spec.Dir, name)

		res := xmldiff.RunContext(ctx, gold, test, cfg)
		output += res.Message() + "\n"
		x.publish(events.EventFileCompared{
			Test:       spec.Name,
			Gold:       gold,
			File:       test,
			Pass:       !res.Fail(),
			Mismatches: len(res.Mismatches),
			ErrorKind:  res.ErrorKind(),
		})

		if res.Fail() {
			attrs := []any{"file", name, "mismatches", len(res.Mismatches)}
			if e := xerrors.FromComparison(res.Err); e != nil {
				attrs = append(attrs, "error_kind", e.Kind.String(), "error", e.Message)
			}
			log.Warn("xml diff failed", attrs...)
			t.SetStatus(StatusDiff, ReasonDiff)
			failed = true
			break
		}
		log.Debug("xml diff passed", "file", name)
	}

	if !failed {
		t.SetStatus(StatusPass, "")
	}
	t.Output = output
	t.Duration = time.Since(start)
	x.publish(events.EventTestFinished{Name: spec.Name, Status: t.Status.String(), Duration: t.Duration})
	return output
}

func skipReason(t *Test, opts Options) string {
	if t.Spec.SkipChecks {
		return ReasonChecksDisabled
	}
	if opts.Scaling && t.Spec.ScaleRefine {
		return ReasonScaling
	}
	return ""
}

func (x *XMLDiff) publish(evt any) {
	if x.broker == nil {
		return
	}
	if err := x.broker.Publish(events.TopicTests, evt, events.PublishTimeout); err != nil {
		x.logger.Debug("event not delivered", "error", err)
	}
}
