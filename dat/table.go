// Package dat reads plain node displacement tables printed by the solver
// next to its primary result file.
package dat

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ccxpost/common"
)

// Record is a single node displacement, three components or six when
// rotations are printed as well.
type Record struct {
	Node   int
	Values []float64
}

// Table maps node ids to displacement records.
type Table map[int]Record

// Lookup returns the record for the given node.
func (t Table) Lookup(node int) (Record, bool) {
	r, ok := t[node]
	return r, ok
}

// Read parses the displacement table from r, name is used in diagnostics
// only. Tables are whitespace-delimited, one node per line. Text lines are
// section sentinels: a line mentioning displacements opens the section of
// interest, any other text line closes it. Tables without any text headers
// are consumed whole. On duplicate node ids the last record wins, since
// restarted runs append their results. A line with an unexpected number of
// fields is skipped with a warning, only a table yielding no records at all
// is an error.
func Read(r io.Reader, name string, log *zap.Logger) (Table, error) {
	t := make(Table)

	var (
		sawText   bool
		inSection bool
		lineNum   int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if _, err := strconv.Atoi(fields[0]); err != nil {
			sawText = true
			inSection = strings.Contains(strings.ToLower(line), "displacements")
			continue
		}
		if sawText && !inSection {
			// numeric line of some other table section, before or after the
			// one of interest
			continue
		}

		rec, err := parseRecord(fields)
		if err != nil {
			log.Warn("Skipping unparsable table line",
				zap.Error(&common.FormatError{Path: name, Line: lineNum, Reason: err.Error()}))
			continue
		}
		t[rec.Node] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read displacement table: %w", err)
	}

	if len(t) == 0 {
		return nil, &common.FormatError{Path: name, Reason: "no displacement records"}
	}
	return t, nil
}

func parseRecord(fields []string) (Record, error) {
	node, err := strconv.Atoi(fields[0])
	if err != nil {
		return Record{}, fmt.Errorf("bad node number %q", fields[0])
	}

	if n := len(fields) - 1; n != 3 && n != 6 {
		return Record{}, fmt.Errorf("%d value fields, want 3 or 6", n)
	}

	values := make([]float64, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Record{}, fmt.Errorf("bad value %q", f)
		}
		values = append(values, v)
	}
	return Record{Node: node, Values: values}, nil
}

// Parse reads the displacement table from the file at the given path.
func Parse(path string, log *zap.Logger) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open displacement table: %w", err)
	}
	defer f.Close()
	return Read(f, path, log)
}
