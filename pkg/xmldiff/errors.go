package xmldiff

import "fmt"

// Side names which input an error refers to.
type Side string

const (
	SideGold Side = "gold"
	SideTest Side = "test"
)

// ParseError reports an input that is missing, unreadable, or not
// well-formed XML.
type ParseError struct {
	Side Side
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Side == "" {
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parse %s file %s: %v", e.Side, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DepthLimitError reports element nesting deeper than the configured limit.
type DepthLimitError struct {
	Side Side
	File string
	// Element is the path of the first element beyond the limit, when known.
	Element string
	Limit   int
}

func (e *DepthLimitError) Error() string {
	msg := fmt.Sprintf("element nesting exceeds depth limit %d", e.Limit)
	if e.Element != "" {
		msg += " at " + e.Element
	}
	if e.File != "" {
		msg = fmt.Sprintf("%s file %s: %s", e.Side, e.File, msg)
	}
	return msg
}
