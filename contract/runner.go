package contract

import (
	"context"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"

	"go.hacdias.com/posts/harness"
	"go.hacdias.com/posts/log"
)

type TestLogger interface {
	TestStarted(id string)
	TestError(id string, err error)
	TestFinished(id string, failed bool)
	TestSkipped(id string, reason string)
}

type nullTestLogger struct{}

func (nullTestLogger) TestStarted(string)         {}
func (nullTestLogger) TestError(string, error)    {}
func (nullTestLogger) TestFinished(string, bool)  {}
func (nullTestLogger) TestSkipped(string, string) {}

type Results struct {
	Tests    []Result
	Failures []Result
}

type Result struct {
	ID      string
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Filter determines whether a case with the given id runs.
type Filter func(id string) bool

type RegexFilters struct {
	MustMatch    []*regexp.Regexp
	MustNotMatch []*regexp.Regexp
}

func NewRegexFilters(run, skip []string) (RegexFilters, error) {
	var (
		f   RegexFilters
		err error
	)

	f.MustMatch, err = compileAll(run)
	if err != nil {
		return f, err
	}

	f.MustNotMatch, err = compileAll(skip)
	return f, err
}

func (r RegexFilters) AsFilter(id string) bool {
	return (len(r.MustMatch) == 0 || anyMatch(r.MustMatch, id)) && !anyMatch(r.MustNotMatch, id)
}

func (r RegexFilters) String() string {
	var ss []string
	for _, p := range r.MustMatch {
		ss = append(ss, fmt.Sprintf("run %q", p.String()))
	}
	for _, p := range r.MustNotMatch {
		ss = append(ss, fmt.Sprintf("skip %q", p.String()))
	}
	return strings.Join(ss, ", ")
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	var rxs []*regexp.Regexp
	for _, p := range patterns {
		rx, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", p, err)
		}
		rxs = append(rxs, rx)
	}
	return rxs, nil
}

func anyMatch(rxs []*regexp.Regexp, s string) bool {
	for _, rx := range rxs {
		if rx.MatchString(s) {
			return true
		}
	}
	return false
}

// Run runs every case in [Cases] against h.
func Run(ctx context.Context, h *harness.Harness, filter Filter, logger TestLogger) Results {
	return RunCases(ctx, h, Cases, filter, logger)
}

// RunCases runs the cases one after the other. Each case gets freshly seeded
// data and the store is wiped after it, even when it fails. A failing case
// never stops the following ones.
func RunCases(ctx context.Context, h *harness.Harness, cases []Case, filter Filter, logger TestLogger) Results {
	if logger == nil {
		logger = nullTestLogger{}
	}

	var results Results
	for _, c := range cases {
		id := c.ID()
		if filter != nil && !filter(id) {
			logger.TestSkipped(id, "excluded by filter parameters")
			results.Tests = append(results.Tests, Result{ID: id, Skipped: true})
			continue
		}

		logger.TestStarted(id)
		t := &caseT{id: id, logger: logger}
		t.run(ctx, h, c)
		logger.TestFinished(id, t.failed)

		result := Result{ID: id, Errors: t.errors}
		results.Tests = append(results.Tests, result)
		if t.failed {
			results.Failures = append(results.Failures, result)
		}
	}

	return results
}

// caseT collects the failures of a single case. FailNow aborts the case by
// panicking with the caseT itself, which run recovers.
type caseT struct {
	id     string
	logger TestLogger
	failed bool
	errors []error
}

func (t *caseT) Errorf(format string, args ...interface{}) {
	t.failed = true
	err := fmt.Errorf(format, args...)
	t.errors = append(t.errors, err)
	t.logger.TestError(t.id, err)
}

func (t *caseT) FailNow() {
	panic(t)
}

func (t *caseT) run(ctx context.Context, h *harness.Harness, c Case) {
	defer func() {
		if err := h.Wipe(ctx); err != nil {
			log.S().Named("contract").Errorw("case teardown failed", "test", t.id, "err", err)
		}
	}()

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if r == t {
			if !t.failed {
				t.Errorf("test failed with no failure message")
			}
			return
		}

		t.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
	}()

	_, err := h.Seed(ctx)
	if err != nil {
		t.Errorf("case setup: %s", err)
		return
	}

	c.Run(t, h)
}
