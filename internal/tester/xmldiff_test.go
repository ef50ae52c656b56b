package tester

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	xerrors "github.com/AndreyAkinshin/xmldiff/internal/errors"
	"github.com/AndreyAkinshin/xmldiff/internal/events"
	"github.com/AndreyAkinshin/xmldiff/internal/testspec"
	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

// fixture lays out a test directory with gold copies under gold/.
type fixture struct {
	t   *testing.T
	dir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, dir: t.TempDir()}
}

func (f *fixture) write(rel, content string) {
	f.t.Helper()
	path := filepath.Join(f.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		f.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		f.t.Fatal(err)
	}
}

// pair writes the same-named gold and test files.
func (f *fixture) pair(name, gold, test string) {
	f.write(filepath.Join("gold", name), gold)
	f.write(name, test)
}

func (f *fixture) spec(files ...string) *testspec.Spec {
	s := &testspec.Spec{Name: "case", XMLDiff: files, Dir: f.dir}
	s.ApplyDefaults(nil)
	return s
}

func TestProcessResults_AllPass(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.pair("a.xml", `<r x="1.0"/>`, `<r x="1.0000001"/>`)
	f.pair("b.xml", `<r>0 1 2</r>`, `<r>0 1 2</r>`)

	test := NewTest(f.spec("a.xml", "b.xml"))
	out := New(nil, nil).ProcessResults(context.Background(), test, Options{}, "run log\n")

	if test.Status != StatusPass {
		t.Errorf("Status = %v, want PASS", test.Status)
	}
	if !strings.HasPrefix(out, "run log\n") {
		t.Errorf("output lost its prefix: %q", out)
	}
	if strings.Count(out, xmldiff.PassPrefix) != 2 {
		t.Errorf("output = %q, want two pass messages", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("each message should end with a newline")
	}
	if test.Output != out {
		t.Error("Test.Output not recorded")
	}
}

func TestProcessResults_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.pair("a.xml", `<r x="1"/>`, `<r x="1"/>`)
	f.pair("b.xml", `<r x="1"/>`, `<r x="2"/>`)
	f.pair("c.xml", `<r x="1"/>`, `<r x="3"/>`)

	test := NewTest(f.spec("a.xml", "b.xml", "c.xml"))
	out := New(nil, nil).ProcessResults(context.Background(), test, Options{}, "")

	if test.Status != StatusDiff || test.Reason != ReasonDiff {
		t.Errorf("Status = %v (%s), want XMLDIFF", test.Status, test.Reason)
	}
	if strings.Count(out, xmldiff.PassPrefix) != 1 || strings.Count(out, xmldiff.FailPrefix) != 1 {
		t.Errorf("output = %q, want one pass and one failure", out)
	}
	if strings.Contains(out, "c.xml") {
		t.Errorf("c.xml compared after the first failure:\n%s", out)
	}
}

func TestProcessResults_MissingOutput(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.write("gold/a.xml", `<r/>`)

	test := NewTest(f.spec("a.xml"))
	out := New(nil, nil).ProcessResults(context.Background(), test, Options{}, "")
	if test.Status != StatusDiff {
		t.Errorf("Status = %v, want XMLDIFF", test.Status)
	}
	if !strings.HasPrefix(out, xmldiff.ErrorPrefix) {
		t.Errorf("output = %q, want error report", out)
	}
}

func TestProcessResults_Skips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		prior      Status
		skipChecks bool
		scaleRef   bool
		scaling    bool
		wantStatus Status
		wantReason string
	}{
		{"checks disabled", StatusNone, true, false, false, StatusSkip, ReasonChecksDisabled},
		{"scaling refine", StatusNone, false, true, true, StatusSkip, ReasonScaling},
		{"prior failure kept", StatusFail, false, false, false, StatusFail, "crashed"},
		{"prior diff kept", StatusDiff, true, false, false, StatusDiff, "crashed"},
		{"prior status kept on skip", StatusPass, true, false, false, StatusPass, "crashed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			// A differing pair: any comparison would fail the test.
			f.pair("a.xml", `<r x="1"/>`, `<r x="2"/>`)
			spec := f.spec("a.xml")
			spec.SkipChecks = tt.skipChecks
			spec.ScaleRefine = tt.scaleRef

			test := NewTest(spec)
			if tt.prior != StatusNone {
				test.SetStatus(tt.prior, "crashed")
			}
			out := New(nil, nil).ProcessResults(context.Background(), test, Options{Scaling: tt.scaling}, "unchanged")

			if out != "unchanged" {
				t.Errorf("output = %q, want unchanged", out)
			}
			if test.Status != tt.wantStatus || test.Reason != tt.wantReason {
				t.Errorf("Status = %v (%q), want %v (%q)", test.Status, test.Reason, tt.wantStatus, tt.wantReason)
			}
		})
	}
}

func TestProcessResults_ScaleRefineWithoutScalingRuns(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.pair("a.xml", `<r x="1"/>`, `<r x="2"/>`)
	spec := f.spec("a.xml")
	spec.ScaleRefine = true

	test := NewTest(spec)
	New(nil, nil).ProcessResults(context.Background(), test, Options{}, "")
	if test.Status != StatusDiff {
		t.Errorf("Status = %v, want XMLDIFF", test.Status)
	}
}

func TestProcessResults_SpecTolerances(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.pair("a.xml", `<r x="1.0" stamp="mon"/>`, `<r x="1.01" stamp="tue"/>`)

	rel := 0.05
	spec := f.spec("a.xml")
	spec.RelErr = &rel
	spec.IgnoredAttributes = []string{"stamp"}

	test := NewTest(spec)
	out := New(nil, nil).ProcessResults(context.Background(), test, Options{}, "")
	if test.Status != StatusPass {
		t.Errorf("Status = %v, want PASS:\n%s", test.Status, out)
	}
}

func TestProcessResults_CustomGoldDir(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.write("reference/a.xml", `<r/>`)
	f.write("a.xml", `<r/>`)

	spec := &testspec.Spec{Name: "case", XMLDiff: []string{"a.xml"}, Dir: f.dir, GoldDir: "reference"}
	spec.ApplyDefaults(nil)

	test := NewTest(spec)
	New(nil, nil).ProcessResults(context.Background(), test, Options{}, "")
	if test.Status != StatusPass {
		t.Errorf("Status = %v, want PASS", test.Status)
	}
}

func TestProcessResults_PublishesEvents(t *testing.T) {
	f := newFixture(t)
	f.pair("a.xml", `<r/>`, `<r/>`)
	f.pair("b.xml", `<r/>`, `<s/>`)

	b := events.NewBroker()
	sub, err := b.Subscribe(events.TopicTests)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	// Give the broker time to register the subscriber
	time.Sleep(50 * time.Millisecond)

	test := NewTest(f.spec("a.xml", "b.xml"))
	New(b, nil).ProcessResults(context.Background(), test, Options{}, "")

	var started, finished bool
	var compared []events.EventFileCompared
	timeout := time.After(2 * time.Second)
	for !finished {
		select {
		case msg := <-sub.Messages():
			switch evt := msg.Payload.(type) {
			case events.EventTestStarted:
				started = evt.Files == 2
			case events.EventFileCompared:
				compared = append(compared, evt)
			case events.EventTestFinished:
				finished = true
				if evt.Status != "XMLDIFF" {
					t.Errorf("finished Status = %q, want XMLDIFF", evt.Status)
				}
			}
		case <-timeout:
			t.Fatal("Timeout waiting for EventTestFinished")
		}
	}

	if !started {
		t.Error("EventTestStarted not received")
	}
	if len(compared) != 2 || !compared[0].Pass || compared[1].Pass || compared[1].Mismatches != 1 {
		t.Errorf("compared = %+v", compared)
	}
}

func TestPrepare_RemovesOutputs(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.pair("a.xml", `<r/>`, `<r/>`)
	f.write("outdir/part.xml", `<r/>`)

	spec := f.spec("a.xml", "outdir", "never-written.xml")
	on := true
	spec.DeleteOutputBeforeRunning = &on

	if err := New(nil, nil).Prepare(NewTest(spec)); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	for _, name := range []string{"a.xml", "outdir"} {
		if _, err := os.Stat(filepath.Join(f.dir, name)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s still exists", name)
		}
	}
	if _, err := os.Stat(filepath.Join(f.dir, "gold", "a.xml")); err != nil {
		t.Errorf("gold copy removed: %v", err)
	}
}

func TestPrepare_Disabled(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.write("a.xml", `<r/>`)

	if err := New(nil, nil).Prepare(NewTest(f.spec("a.xml"))); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.dir, "a.xml")); err != nil {
		t.Errorf("output removed without delete_output_before_running: %v", err)
	}
}

func TestPrepare_RejectsEscapingNames(t *testing.T) {
	t.Parallel()
	on := true

	for _, name := range []string{"../a.xml", "sub/../../a.xml", "/tmp/a.xml"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			spec := f.spec(name)
			spec.DeleteOutputBeforeRunning = &on

			err := New(nil, nil).Prepare(NewTest(spec))
			var xe *xerrors.Error
			if !errors.As(err, &xe) {
				t.Fatalf("Prepare() error = %v, want *errors.Error", err)
			}
			if xe.Kind != xerrors.KindValidation || xe.Test != "case" || xe.File != name {
				t.Errorf("error = %+v", xe)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status Status
		failed bool
		str    string
	}{
		{StatusNone, false, "NONE"},
		{StatusPass, false, "PASS"},
		{StatusSkip, false, "SKIP"},
		{StatusFail, true, "FAIL"},
		{StatusDiff, true, "XMLDIFF"},
	}
	for _, tt := range tests {
		if got := tt.status.Failed(); got != tt.failed {
			t.Errorf("%v.Failed() = %v, want %v", tt.status, got, tt.failed)
		}
		if got := tt.status.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
	}
}
