// Package common holds small pieces shared between parsers, the splicing
// pipeline and the command line layer which do not belong to any of them.
package common

import (
	"fmt"
)

// FormatError is reported when an input file (or a single record in it)
// cannot be understood structurally.
type FormatError struct {
	Path   string
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// MissingDataError is reported when a node required for splicing has no
// source displacement record. It always aborts the run before anything is
// written.
type MissingDataError struct {
	Path string
	Node int
}

func (e *MissingDataError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s: no displacement record for node %d", e.Path, e.Node)
	}
	return fmt.Sprintf("no displacement record for node %d", e.Node)
}

// UnsupportedElementError is reported for expansion records of a shape the
// splicer does not know. Such records are skipped, they never abort the run
// on their own.
type UnsupportedElementError struct {
	Element     int
	Label       string
	NumOriginal int
	NumExpanded int
}

func (e *UnsupportedElementError) Error() string {
	if len(e.Label) > 0 {
		return fmt.Sprintf("element %d: unsupported expansion %s (%d to %d nodes)", e.Element, e.Label, e.NumOriginal, e.NumExpanded)
	}
	return fmt.Sprintf("element %d: unsupported expansion (%d to %d nodes)", e.Element, e.NumOriginal, e.NumExpanded)
}
