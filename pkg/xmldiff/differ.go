package xmldiff

// frame is one pending comparison on the work stack. Exactly one of gold and
// test may be nil, which marks an unmatched tail child.
type frame struct {
	gold  *Node
	test  *Node
	path  string
	depth int
}

// Diff compares two trees and returns every mismatch in document order.
//
// Children are matched by position. Unmatched trailing children are reported
// once each and not descended into. Attributes are matched by name, skipping
// ignored names. The walk uses an explicit stack; nesting beyond cfg.MaxDepth
// stops the comparison with a *DepthLimitError, returned along with the
// mismatches found so far.
func Diff(gold, test *Node, cfg Config) ([]Mismatch, error) {
	d := &differ{
		cfg:    cfg,
		filter: NewFilter(cfg.IgnoredAttributes),
		limit:  cfg.depthLimit(),
	}
	return d.run(gold, test)
}

type differ struct {
	cfg        Config
	filter     *Filter
	limit      int
	mismatches []Mismatch
}

func (d *differ) run(gold, test *Node) ([]Mismatch, error) {
	if gold == nil && test == nil {
		return nil, nil
	}

	var rootPath string
	switch {
	case gold != nil:
		rootPath = "/" + gold.segment(1)
	default:
		rootPath = "/" + test.segment(1)
	}

	stack := []frame{{gold: gold, test: test, path: rootPath, depth: 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.gold != nil && f.test != nil && f.depth > d.limit {
			return d.mismatches, &DepthLimitError{Limit: d.limit, Element: f.path}
		}

		stack = d.compare(f, stack)
	}
	return d.mismatches, nil
}

// compare records the mismatches local to f and pushes its children.
func (d *differ) compare(f frame, stack []frame) []frame {
	g, t := f.gold, f.test

	switch {
	case t == nil:
		d.add(Mismatch{Kind: KindMissingElement, Path: f.path, Gold: g.label(), Test: Absent})
		return stack
	case g == nil:
		d.add(Mismatch{Kind: KindExtraElement, Path: f.path, Gold: Absent, Test: t.label()})
		return stack
	case g.Kind != t.Kind:
		d.add(Mismatch{Kind: KindStructure, Path: f.path, Gold: g.label(), Test: t.label()})
		return stack
	case g.Kind == TextNode:
		d.compareText(f.path, g.Text, t.Text)
		return stack
	case g.Name != t.Name:
		d.add(Mismatch{Kind: KindTag, Path: f.path, Gold: g.Name, Test: t.Name})
		return stack
	}

	d.compareAttrs(f.path, g, t)
	d.compareText(f.path, g.Text, t.Text)
	return pushChildren(stack, f, g, t)
}

func (d *differ) compareAttrs(path string, g, t *Node) {
	for _, ga := range g.Attrs {
		if d.filter.IsIgnored(ga.Name) {
			continue
		}
		tv, ok := t.Attr(ga.Name)
		if !ok {
			d.add(Mismatch{Kind: KindAttributeMissing, Path: path, Name: ga.Name, Gold: ga.Value, Test: Absent})
			continue
		}
		res := compareLeaf(ga.Value, tv, d.cfg.AbsZero, d.cfg.RelTol)
		if res.equal {
			continue
		}
		kind := KindAttributeValue
		if res.numeric {
			kind = KindNumeric
		}
		d.add(Mismatch{Kind: kind, Path: path, Name: ga.Name, Gold: ga.Value, Test: tv, Detail: res.detail})
	}

	for _, ta := range t.Attrs {
		if d.filter.IsIgnored(ta.Name) {
			continue
		}
		if _, ok := g.Attr(ta.Name); !ok {
			d.add(Mismatch{Kind: KindAttributeExtra, Path: path, Name: ta.Name, Gold: Absent, Test: ta.Value})
		}
	}
}

func (d *differ) compareText(path, gold, test string) {
	res := compareLeaf(gold, test, d.cfg.AbsZero, d.cfg.RelTol)
	if res.equal {
		return
	}
	kind := KindText
	if res.numeric {
		kind = KindNumeric
	}
	d.add(Mismatch{
		Kind:   kind,
		Path:   path,
		Gold:   NormalizeSpace(gold),
		Test:   NormalizeSpace(test),
		Detail: res.detail,
	})
}

func (d *differ) add(m Mismatch) {
	d.mismatches = append(d.mismatches, m)
}

// pushChildren pushes child frames in reverse document order so that they
// are popped in document order. Unmatched tails go first so they are
// reported after every matched child's subtree.
func pushChildren(stack []frame, parent frame, g, t *Node) []frame {
	gOrd := ordinals(g.Children)
	tOrd := ordinals(t.Children)
	depth := parent.depth + 1

	for i := len(g.Children) - 1; i >= len(t.Children); i-- {
		c := g.Children[i]
		stack = append(stack, frame{gold: c, path: parent.path + "/" + c.segment(gOrd[i]), depth: depth})
	}
	for i := len(t.Children) - 1; i >= len(g.Children); i-- {
		c := t.Children[i]
		stack = append(stack, frame{test: c, path: parent.path + "/" + c.segment(tOrd[i]), depth: depth})
	}

	matched := min(len(g.Children), len(t.Children))
	for i := matched - 1; i >= 0; i-- {
		c := g.Children[i]
		stack = append(stack, frame{
			gold:  c,
			test:  t.Children[i],
			path:  parent.path + "/" + c.segment(gOrd[i]),
			depth: depth,
		})
	}
	return stack
}
