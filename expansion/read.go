package expansion

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ccxpost/common"
)

// record accumulates one logical element record while scanning.
type record struct {
	line     int
	element  int
	label    string
	original []int
	expanded []int
	why      string
}

func (r *record) fail(why string) {
	if len(r.why) == 0 {
		r.why = why
	}
}

// Read parses the expansion map from r, name is used in diagnostics only.
// Each record associates one original element with the node sequence of its
// expanded counterpart:
//
//	ELEMENT 1
//	1 2 3 4 5 6
//	C3D15
//	1 2 3 4 5 6 101 102 103 104
//	105 106 201 202 203
//
// Extra whitespace and varying line breaks inside a record are tolerated, so
// is a missing type label line when the combined node run has the supported
// length. Malformed and unsupported records are skipped with a warning, only
// a map without a single usable record is an error.
func Read(r io.Reader, name string, log *zap.Logger) (*Map, error) {
	m := &Map{
		path:    name,
		copies:  make(map[int][]Copy),
		sources: make(map[int]int),
	}

	var cur *record

	flush := func() {
		if cur == nil {
			return
		}
		rec := cur
		cur = nil

		if len(rec.why) > 0 {
			m.skipped++
			log.Warn("Skipping malformed expansion record",
				zap.Error(&common.FormatError{Path: name, Line: rec.line, Reason: rec.why}))
			return
		}

		orig, exp := rec.original, rec.expanded
		if len(rec.label) == 0 && len(exp) == 0 && len(orig) == numShellNodes+numSolidNodes {
			orig, exp = orig[:numShellNodes], orig[numShellNodes:]
		}
		if len(orig) != numShellNodes || len(exp) != numSolidNodes {
			m.skipped++
			log.Warn("Skipping unsupported element expansion",
				zap.String("file", name),
				zap.Error(&common.UnsupportedElementError{Element: rec.element, Label: rec.label, NumOriginal: len(orig), NumExpanded: len(exp)}))
			return
		}
		m.add(Element{ID: rec.element, Label: rec.label, Original: orig, Expanded: exp}, log)
	}

	lineNum := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "ELEMENT" {
			flush()
			cur = &record{line: lineNum}
			if len(fields) < 2 {
				cur.fail("element record without a number")
				continue
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				cur.fail(fmt.Sprintf("bad element number %q", fields[1]))
				continue
			}
			cur.element = id
			continue
		}
		if cur == nil {
			// preamble before the first record
			continue
		}
		if len(cur.why) > 0 {
			// remainder of a failed record, wait for the next ELEMENT line
			continue
		}

		if nodes, ok := parseInts(fields); ok {
			if len(cur.label) == 0 {
				cur.original = append(cur.original, nodes...)
			} else {
				cur.expanded = append(cur.expanded, nodes...)
			}
			continue
		}
		if len(cur.label) > 0 {
			cur.fail(fmt.Sprintf("unexpected text %q inside element record", strings.Join(fields, " ")))
			continue
		}
		cur.label = fields[0]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read expansion map: %w", err)
	}
	flush()

	if len(m.elements) == 0 {
		return nil, &common.FormatError{Path: name, Reason: "no usable element expansion records"}
	}

	for _, copies := range m.copies {
		sort.Slice(copies, func(i, j int) bool { return copies[i].Node < copies[j].Node })
	}
	return m, nil
}

func parseInts(fields []string) ([]int, bool) {
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
