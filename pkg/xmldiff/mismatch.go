package xmldiff

import (
	"fmt"
	"strings"
)

// Absent marks the side of a mismatch on which a node or attribute does not
// exist.
const Absent = "<absent>"

// MismatchKind identifies what differs.
type MismatchKind string

const (
	KindStructure        MismatchKind = "structure differs"
	KindTag              MismatchKind = "tag mismatch"
	KindMissingElement   MismatchKind = "missing element"
	KindExtraElement     MismatchKind = "extra element"
	KindAttributeMissing MismatchKind = "attribute missing"
	KindAttributeExtra   MismatchKind = "attribute extra"
	KindAttributeValue   MismatchKind = "attribute value differs"
	KindText             MismatchKind = "text differs"
	KindNumeric          MismatchKind = "numeric value out of tolerance"
)

// MismatchClass groups kinds into structural and value divergences.
type MismatchClass int

const (
	ClassStructural MismatchClass = iota
	ClassValue
)

func (c MismatchClass) String() string {
	if c == ClassValue {
		return "value mismatch"
	}
	return "structural mismatch"
}

// Class returns the class of k.
func (k MismatchKind) Class() MismatchClass {
	switch k {
	case KindAttributeValue, KindText, KindNumeric:
		return ClassValue
	default:
		return ClassStructural
	}
}

// Mismatch describes one divergence between the gold and test documents.
type Mismatch struct {
	Kind MismatchKind `json:"kind"`
	// Path locates the element, e.g. /VTKFile[1]/PolyData[1]/Piece[2].
	Path string `json:"path"`
	// Name is the attribute name for attribute mismatches.
	Name   string `json:"name,omitempty"`
	Gold   string `json:"gold"`
	Test   string `json:"test"`
	Detail string `json:"detail,omitempty"`
}

// String formats m as a single report line.
func (m Mismatch) String() string {
	var b strings.Builder
	b.WriteString(m.Path)
	if m.Name != "" {
		b.WriteString("@")
		b.WriteString(m.Name)
	}
	fmt.Fprintf(&b, ": %s (gold=%s, test=%s)", m.Kind, m.formatSide(m.Gold), m.formatSide(m.Test))
	if m.Detail != "" {
		b.WriteString(" [")
		b.WriteString(m.Detail)
		b.WriteString("]")
	}
	return b.String()
}

// formatSide quotes leaf values. Structural sides are node labels and are
// printed as is.
func (m Mismatch) formatSide(v string) string {
	if v == Absent || m.Kind.Class() == ClassStructural && m.Name == "" {
		return v
	}
	return fmt.Sprintf("%q", v)
}
