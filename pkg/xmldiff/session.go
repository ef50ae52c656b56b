package xmldiff

import (
	"context"
	"errors"
	"fmt"
)

// Session holds one gold/test file pair and the configuration used to
// compare them.
type Session struct {
	goldPath string
	testPath string
	cfg      Config
}

// NewSession creates a session. cfg is copied; later changes made by the
// caller do not affect the session.
func NewSession(goldPath, testPath string, cfg Config) *Session {
	return &Session{
		goldPath: goldPath,
		testPath: testPath,
		cfg:      cfg.clone(),
	}
}

// Run compares the two files. It never panics on bad input: missing or
// malformed files produce a failing Result whose Err is a *ParseError, and
// excessive nesting produces a *DepthLimitError.
func (s *Session) Run() *Result {
	return s.RunContext(context.Background())
}

// RunContext is like Run but stops before diffing when ctx is done. The
// context error is carried in Result.Err.
func (s *Session) RunContext(ctx context.Context) *Result {
	res := &Result{
		GoldPath: s.goldPath,
		TestPath: s.testPath,
		Config:   s.cfg,
	}

	if err := ValidateConfig(s.cfg); err != nil {
		res.Err = fmt.Errorf("invalid configuration: %w", err)
		return res
	}

	gold, err := parseSide(SideGold, s.goldPath, s.cfg.depthLimit())
	if err != nil {
		res.Err = err
		return res
	}
	test, err := parseSide(SideTest, s.testPath, s.cfg.depthLimit())
	if err != nil {
		res.Err = err
		return res
	}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	mismatches, err := Diff(gold, test, s.cfg)
	res.Mismatches = mismatches
	if err != nil {
		res.Err = err
	}
	return res
}

// Run compares the XML files at goldPath and testPath.
func Run(goldPath, testPath string, cfg Config) *Result {
	return NewSession(goldPath, testPath, cfg).Run()
}

// RunContext compares the XML files at goldPath and testPath, observing ctx.
func RunContext(ctx context.Context, goldPath, testPath string, cfg Config) *Result {
	return NewSession(goldPath, testPath, cfg).RunContext(ctx)
}

// Pair is a gold/test file pair.
type Pair struct {
	Gold string
	Test string
}

// RunAll compares every pair in order and returns one Result per pair. It
// does not stop at the first failing pair.
func RunAll(pairs []Pair, cfg Config) []*Result {
	results := make([]*Result, 0, len(pairs))
	for _, p := range pairs {
		results = append(results, Run(p.Gold, p.Test, cfg))
	}
	return results
}

func parseSide(side Side, path string, maxDepth int) (*Node, error) {
	node, err := ParseFile(path, maxDepth)
	if err == nil {
		return node, nil
	}
	var depthErr *DepthLimitError
	if errors.As(err, &depthErr) {
		depthErr.Side = side
		depthErr.File = path
		return nil, depthErr
	}
	return nil, &ParseError{Side: side, Path: path, Err: err}
}
